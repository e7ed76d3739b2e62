package config

// DefaultTopics seeds the discovery query pool. Each cycle pairs a random
// topic with a random site hint to form the search query. Overridable via
// the topics key in config.yaml.
var DefaultTopics = []string{
	"wifi not connecting",
	"slow internet connection fix",
	"printer offline windows",
	"laptop battery draining fast",
	"phone overheating",
	"bluetooth pairing failed",
	"computer running slow",
	"blue screen error fix",
	"email not syncing",
	"external monitor not detected",
	"smartphone storage full",
	"app keeps crashing",
	"no sound from speakers",
	"webcam not working",
	"forgotten router password reset",
}

// DefaultSiteHints bias searches toward sites whose articles convert well
// into step-by-step guides.
var DefaultSiteHints = []string{
	"support.google.com",
	"support.microsoft.com",
	"support.apple.com",
	"ifixit.com",
	"tomshardware.com",
	"howtogeek.com",
	"lifewire.com",
	"",
}
