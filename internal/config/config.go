// Package config provides application configuration with multi-source
// priority.
//
// Sources (highest to lowest):
//  1. Environment variables (secrets and runtime overrides)
//  2. Config file (~/.guidewise/config.yaml, or ./config.yaml)
//  3. Default values
//
// Sensitive fields (API keys) are masked in MarshalJSON and String so a
// dumped config never leaks credentials. Validation is fail-fast with
// sentinel errors usable via errors.Is.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidBatchSize indicates the per-cycle query count is out of range.
	ErrInvalidBatchSize = errors.New("invalid batch size")

	// ErrInvalidInterval indicates the continuous-mode interval is too short.
	ErrInvalidInterval = errors.New("invalid cycle interval")

	// ErrInvalidTimeout indicates a timeout setting is non-positive.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrNoTopics indicates the discovery topic list is empty.
	ErrNoTopics = errors.New("no discovery topics configured")

	// ErrInvalidModelName indicates the generation model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")
)

// Bounds for validated settings.
const (
	MinBatchSize = 1
	MaxBatchSize = 25

	// MinCycleInterval keeps continuous mode from hammering the search and
	// generation services.
	MinCycleInterval = time.Minute
)

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON. When
// adding new secret fields, update MarshalJSON as well.
type Config struct {
	// Generation service
	GeminiAPIKey string `mapstructure:"gemini_api_key" json:"gemini_api_key"` // SENSITIVE: masked
	ModelName    string `mapstructure:"model_name" json:"model_name"`

	// Search provider (primary structured search API)
	TavilyAPIKey string `mapstructure:"tavily_api_key" json:"tavily_api_key"` // SENSITIVE: masked

	// Store files
	CorpusPath  string `mapstructure:"corpus_path" json:"corpus_path"`
	PendingPath string `mapstructure:"pending_path" json:"pending_path"`

	// Discovery cycle
	BatchSize     int           `mapstructure:"batch_size" json:"batch_size"`
	CycleInterval time.Duration `mapstructure:"cycle_interval" json:"cycle_interval"`
	QueryDelay    time.Duration `mapstructure:"query_delay" json:"query_delay"`

	// Network bounds
	SearchTimeout     time.Duration `mapstructure:"search_timeout" json:"search_timeout"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" json:"navigation_timeout"`
	GenerationTimeout time.Duration `mapstructure:"generation_timeout" json:"generation_timeout"`

	// Topic and source-site pools the orchestrator samples from
	Topics    []string `mapstructure:"topics" json:"topics"`
	SiteHints []string `mapstructure:"site_hints" json:"site_hints"`

	// Extra denylist terms merged into the built-in safety filter
	DenyTerms []string `mapstructure:"deny_terms" json:"deny_terms"`
}

// Load loads configuration with priority env > file > defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".guidewise")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v, configDir)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("model_name", "gemini-2.5-flash")

	v.SetDefault("corpus_path", filepath.Join(configDir, "corpus.json"))
	v.SetDefault("pending_path", filepath.Join(configDir, "pending.json"))

	v.SetDefault("batch_size", 5)
	v.SetDefault("cycle_interval", time.Hour)
	v.SetDefault("query_delay", 2*time.Second)

	v.SetDefault("search_timeout", 15*time.Second)
	v.SetDefault("navigation_timeout", 10*time.Second)
	v.SetDefault("generation_timeout", 60*time.Second)

	v.SetDefault("topics", DefaultTopics)
	v.SetDefault("site_hints", DefaultSiteHints)
}

// bindEnvVariables binds secrets and runtime overrides explicitly; no
// AutomaticEnv, so the env surface stays auditable.
func bindEnvVariables(v *viper.Viper) {
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("gemini_api_key", "GEMINI_API_KEY")
	mustBind("tavily_api_key", "TAVILY_API_KEY")

	mustBind("model_name", "GUIDEWISE_MODEL_NAME")
	mustBind("corpus_path", "GUIDEWISE_CORPUS_PATH")
	mustBind("pending_path", "GUIDEWISE_PENDING_PATH")
	mustBind("batch_size", "GUIDEWISE_BATCH_SIZE")
	mustBind("cycle_interval", "GUIDEWISE_CYCLE_INTERVAL")
}

// Validate checks ranges fail-fast. Missing API keys are not errors: the
// pipeline degrades (fallback search, no-op generation) rather than refusing
// to start.
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return ErrInvalidModelName
	}
	if c.BatchSize < MinBatchSize || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("%w: %d (allowed %d-%d)",
			ErrInvalidBatchSize, c.BatchSize, MinBatchSize, MaxBatchSize)
	}
	if c.CycleInterval < MinCycleInterval {
		return fmt.Errorf("%w: %s (minimum %s)",
			ErrInvalidInterval, c.CycleInterval, MinCycleInterval)
	}
	if c.SearchTimeout <= 0 || c.NavigationTimeout <= 0 || c.GenerationTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.QueryDelay < 0 {
		return fmt.Errorf("%w: negative query delay", ErrInvalidTimeout)
	}
	if len(c.Topics) == 0 {
		return ErrNoTopics
	}
	return nil
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret for safe logging. Short secrets are fully
// masked; longer ones keep two characters at each end for debugging.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit secret masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.GeminiAPIKey = maskSecret(a.GeminiAPIKey)
	a.TavilyAPIKey = maskSecret(a.TavilyAPIKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer so accidental printing never leaks secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
