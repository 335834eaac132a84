// internal/common/config/config.go
package config

import "keywordgen/internal/models"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	APIs       APIsConfig              `mapstructure:"apis"`
	Cache      CacheConfig             `mapstructure:"cache"`
	Generation models.GenerationConfig `mapstructure:"generation"`
	Logging    LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIsConfig holds settings for the external collaborators. Timeouts are in
// milliseconds.
type APIsConfig struct {
	GenAI struct {
		BaseURL    string `mapstructure:"base_url"`
		APIKey     string `mapstructure:"api_key"`
		Model      string `mapstructure:"model"`
		Timeout    int    `mapstructure:"timeout"`
		MaxRetries int    `mapstructure:"max_retries"`
		RetryDelay int    `mapstructure:"retry_delay"`
	} `mapstructure:"genai"`

	GapAnalysis struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Timeout int    `mapstructure:"timeout"`
	} `mapstructure:"gap_analysis"`

	Autocomplete struct {
		BaseURL string `mapstructure:"base_url"`
		Timeout int    `mapstructure:"timeout"`
	} `mapstructure:"autocomplete"`

	KeywordData struct {
		BaseURL string `mapstructure:"base_url"`
		Login   string `mapstructure:"login"`
		APIKey  string `mapstructure:"api_key"`
		Timeout int    `mapstructure:"timeout"`
	} `mapstructure:"keyword_data"`
}

// CacheConfig configures the optional redis-backed adapter response cache.
type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// TTL for cached adapter responses, in seconds.
	TTL int `mapstructure:"ttl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
