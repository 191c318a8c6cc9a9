// Package config handles configuration loading for findigest.
// It supports YAML config files with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	LLM       LLMConfig       `mapstructure:"llm"       yaml:"llm"`
	Push      PushConfig      `mapstructure:"push"      yaml:"push"`
	Feeds     FeedsConfig     `mapstructure:"feeds"     yaml:"feeds"`
	Quote     QuoteConfig     `mapstructure:"quote"     yaml:"quote"`
	Validator ValidatorConfig `mapstructure:"validator" yaml:"validator"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// LLMConfig holds chat-completion service configuration.
// The service speaks the OpenAI wire format; DeepSeek is the default.
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"     yaml:"api_key"`
	BaseURL     string  `mapstructure:"base_url"    yaml:"base_url"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"  yaml:"max_tokens"`
	TimeoutSec  int     `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// PushConfig holds notification delivery settings.
// Keys is the comma-separated ServerChan SendKey list from the environment.
type PushConfig struct {
	Keys     string `mapstructure:"keys"     yaml:"keys"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}

// KeyList splits the configured push keys, dropping empty entries.
func (p PushConfig) KeyList() []string {
	var keys []string
	for _, k := range strings.Split(p.Keys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// FeedsConfig holds RSS collection settings.
type FeedsConfig struct {
	MaxPerSource    int `mapstructure:"max_per_source"    yaml:"max_per_source"`
	Retries         int `mapstructure:"retries"           yaml:"retries"`
	RetryDelaySec   int `mapstructure:"retry_delay_sec"   yaml:"retry_delay_sec"`
	ArticleMaxChars int `mapstructure:"article_max_chars" yaml:"article_max_chars"`
	Concurrency     int `mapstructure:"concurrency"       yaml:"concurrency"`
}

// QuoteConfig holds quote API endpoints. Overridable for tests.
type QuoteConfig struct {
	BaseURL        string `mapstructure:"base_url"         yaml:"base_url"`
	HistoryBaseURL string `mapstructure:"history_base_url" yaml:"history_base_url"`
	CacheTTLSec    int    `mapstructure:"cache_ttl_sec"    yaml:"cache_ttl_sec"`
}

// ValidatorConfig holds the business-rule thresholds applied to
// synthesized stock recommendations. The exact values vary across
// revisions of this logic upstream, so they are configuration here.
type ValidatorConfig struct {
	MarketCapCeiling float64 `mapstructure:"market_cap_ceiling" yaml:"market_cap_ceiling"` // yuan
	PriceTolerance   float64 `mapstructure:"price_tolerance"    yaml:"price_tolerance"`    // fraction, e.g. 0.15
	PriceFloorRatio  float64 `mapstructure:"price_floor_ratio"  yaml:"price_floor_ratio"`  // fraction, e.g. 0.85
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.findigest/config.yaml (home directory)
//  3. /etc/findigest/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINDIGEST_<SECTION>_<KEY>, e.g., FINDIGEST_LLM_API_KEY
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".findigest"))
	v.AddConfigPath("/etc/findigest")

	// Environment variable settings
	v.SetEnvPrefix("FINDIGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found: use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override sensitive values from environment
	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FINDIGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// ValidateForRun checks the configuration a digest run cannot start without.
// Everything downstream degrades gracefully, but these two cannot.
func (c *Config) ValidateForRun() error {
	var errs []error
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("LLM API key not set (FINDIGEST_LLM_API_KEY or DEEPSEEK_API_KEY)"))
	}
	if len(c.Push.KeyList()) == 0 {
		errs = append(errs, errors.New("push keys not set (FINDIGEST_PUSH_KEYS or SERVER_CHAN_KEYS)"))
	}
	return errors.Join(errs...)
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// LLM defaults
	v.SetDefault("llm.base_url", "https://api.deepseek.com/v1")
	v.SetDefault("llm.model", "deepseek-chat")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.timeout_sec", 120)

	// Push defaults
	v.SetDefault("push.endpoint", "https://sctapi.ftqq.com")

	// Feed defaults
	v.SetDefault("feeds.max_per_source", 5)
	v.SetDefault("feeds.retries", 3)
	v.SetDefault("feeds.retry_delay_sec", 5)
	v.SetDefault("feeds.article_max_chars", 1500)
	v.SetDefault("feeds.concurrency", 4)

	// Quote defaults
	v.SetDefault("quote.base_url", "http://push2.eastmoney.com")
	v.SetDefault("quote.history_base_url", "http://push2his.eastmoney.com")
	v.SetDefault("quote.cache_ttl_sec", 60)

	// Validator defaults
	v.SetDefault("validator.market_cap_ceiling", 50_000_000_000.0) // ¥50 billion
	v.SetDefault("validator.price_tolerance", 0.15)
	v.SetDefault("validator.price_floor_ratio", 0.85)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
// The bare DEEPSEEK_API_KEY / SERVER_CHAN_KEYS names are accepted for
// compatibility with existing deployments.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("FINDIGEST_LLM_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	} else if key := os.Getenv("DEEPSEEK_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if keys := os.Getenv("FINDIGEST_PUSH_KEYS"); keys != "" {
		cfg.Push.Keys = keys
	} else if keys := os.Getenv("SERVER_CHAN_KEYS"); keys != "" {
		cfg.Push.Keys = keys
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
