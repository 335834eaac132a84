// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml (plus an optional config.<env>.yaml overlay)
// and merges environment variables over it.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // overlay is optional

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// overrideFromEnv fills secrets that are usually injected via environment
// rather than committed to the yaml file.
func overrideFromEnv(cfg *Config) {
	if cfg.APIs.GenAI.APIKey == "" {
		cfg.APIs.GenAI.APIKey = os.Getenv("GENAI_API_KEY")
	}
	if cfg.APIs.GapAnalysis.APIKey == "" {
		cfg.APIs.GapAnalysis.APIKey = os.Getenv("GAP_ANALYSIS_API_KEY")
	}
	if cfg.APIs.KeywordData.APIKey == "" {
		cfg.APIs.KeywordData.APIKey = os.Getenv("KEYWORD_DATA_API_KEY")
	}
	if cfg.APIs.KeywordData.Login == "" {
		cfg.APIs.KeywordData.Login = os.Getenv("KEYWORD_DATA_LOGIN")
	}
	if cfg.Cache.Password == "" {
		cfg.Cache.Password = os.Getenv("REDIS_PASSWORD")
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "keywordgen"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.APIs.GenAI.Model == "" {
		cfg.APIs.GenAI.Model = "gemini-1.5-flash"
	}
	if cfg.APIs.GenAI.Timeout == 0 {
		cfg.APIs.GenAI.Timeout = 60000
	}
	if cfg.APIs.GenAI.MaxRetries == 0 {
		cfg.APIs.GenAI.MaxRetries = 3
	}
	if cfg.APIs.GenAI.RetryDelay == 0 {
		cfg.APIs.GenAI.RetryDelay = 2000
	}
	if cfg.APIs.GapAnalysis.Timeout == 0 {
		cfg.APIs.GapAnalysis.Timeout = 30000
	}
	if cfg.APIs.Autocomplete.Timeout == 0 {
		cfg.APIs.Autocomplete.Timeout = 10000
	}
	if cfg.APIs.KeywordData.Timeout == 0 {
		cfg.APIs.KeywordData.Timeout = 30000
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 86400
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	gen := &cfg.Generation
	if gen.TargetCount == 0 {
		gen.TargetCount = 50
	}
	if gen.MinScore == 0 {
		gen.MinScore = 40
	}
	if gen.ClusterCount == 0 {
		gen.ClusterCount = 6
	}
	if gen.Language == "" {
		gen.Language = "english"
	}
	if gen.Region == "" {
		gen.Region = "us"
	}
	if gen.MinWordCount == 0 {
		gen.MinWordCount = 2
	}
	if gen.SERPSampleSize == 0 {
		gen.SERPSampleSize = 15
	}
}

func validateConfig(cfg *Config) error {
	if cfg.APIs.GenAI.BaseURL == "" {
		return fmt.Errorf("apis.genai.base_url is required")
	}
	if cfg.Cache.Enabled && cfg.Cache.Address == "" {
		return fmt.Errorf("cache.address is required when cache is enabled")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
