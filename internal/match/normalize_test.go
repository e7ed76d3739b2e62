package match

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "WiFi Router", "wifi router"},
		{"punctuation stripped", "Wi-Fi!", "wifi"},
		{"whitespace collapsed", "  slow\t\tlaptop \n fix ", "slow laptop fix"},
		{"digits kept", "error 0x80070005", "error 0x80070005"},
		{"empty", "", ""},
		{"only punctuation", "?!...--", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Wi-Fi!", "  Hello,   WORLD  ", "printer — offline?!", ""}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_PunctuationInsensitive(t *testing.T) {
	if Normalize("Wi-Fi!") != Normalize("wifi") {
		t.Errorf("Normalize(\"Wi-Fi!\") = %q, Normalize(\"wifi\") = %q; want equal",
			Normalize("Wi-Fi!"), Normalize("wifi"))
	}
}
