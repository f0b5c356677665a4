// internal/config/config.go
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the pipeline. Each command validates
// its own required subset: the collector needs GitHub access, the publisher
// needs Bluesky credentials, the differ needs nothing beyond its flags.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`

	GithubToken string `mapstructure:"GITHUB_TOKEN"`
	OrgsCSVURL  string `mapstructure:"ORGS_CSV_URL"`
	CacheDir    string `mapstructure:"CACHE_DIR"`

	DeepLAPIKey string `mapstructure:"DEEPL_API_KEY"`
	DeepLAPIURL string `mapstructure:"DEEPL_API_URL"`
	TargetLang  string `mapstructure:"TARGET_LANG"`

	BlueskyUsername string `mapstructure:"BLUESKY_USERNAME"`
	BlueskyPassword string `mapstructure:"BLUESKY_PASSWORD"`
	BlueskyPDS      string `mapstructure:"BLUESKY_PDS"`
}

// LoadConfig reads configuration from a .env file and/or environment variables.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ORGS_CSV_URL", "https://raw.githubusercontent.com/silva-shih/open-journalism/master/orgs.csv")
	viper.SetDefault("CACHE_DIR", "data")
	viper.SetDefault("DEEPL_API_URL", "https://api-free.deepl.com")
	viper.SetDefault("TARGET_LANG", "NB")
	viper.SetDefault("BLUESKY_PDS", "https://bsky.social")

	// Load from .env file if it exists
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error if file not found

	// Bind environment variables. Unmarshal only sees keys that carry a
	// default or an explicit binding; AutomaticEnv alone leaves env-only
	// credentials invisible.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range []string{
		"GITHUB_TOKEN",
		"DEEPL_API_KEY",
		"BLUESKY_USERNAME",
		"BLUESKY_PASSWORD",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateCollector checks the fields the collect command depends on.
func (c *Config) ValidateCollector() error {
	if c.GithubToken == "" {
		return errors.New("GITHUB_TOKEN is a required configuration field")
	}
	if c.OrgsCSVURL == "" {
		return errors.New("ORGS_CSV_URL is a required configuration field")
	}
	return nil
}

// ValidatePublisher checks the fields the publish command depends on.
// Translation credentials are deliberately not required: a missing
// DEEPL_API_KEY downgrades to posting untranslated text.
func (c *Config) ValidatePublisher() error {
	if c.BlueskyUsername == "" || c.BlueskyPassword == "" {
		return errors.New("BLUESKY_USERNAME and BLUESKY_PASSWORD are required configuration fields")
	}
	return nil
}
