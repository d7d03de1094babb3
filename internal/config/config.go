// Package config provides engine configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds engine configuration values loaded from file or environment
// variables.
type Config struct {
	RedisURL           string `mapstructure:"REDIS_URL"`
	Env                string `mapstructure:"APP_ENV"`
	TransactMaxRetries int    `mapstructure:"TRANSACT_MAX_RETRIES"`
	InboxMaxEntries    int    `mapstructure:"INBOX_MAX_ENTRIES"`
	NotifyTimeoutMS    int    `mapstructure:"NOTIFY_TIMEOUT_MS"`
}

// LoadConfig loads engine configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables and defaults
	// are enough to run.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("TRANSACT_MAX_RETRIES", 16)
	viper.SetDefault("INBOX_MAX_ENTRIES", 100)
	viper.SetDefault("NOTIFY_TIMEOUT_MS", 2000)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and sane.
func (c *Config) Validate() error {
	if c.RedisURL == "" {
		return errors.New("REDIS_URL is required")
	}
	if c.TransactMaxRetries < 1 {
		return errors.New("TRANSACT_MAX_RETRIES must be at least 1")
	}
	if c.InboxMaxEntries < 1 {
		return errors.New("INBOX_MAX_ENTRIES must be at least 1")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.RedisURL == "localhost:6379" {
			log.Println("WARNING: REDIS_URL points at localhost in production.")
		}
		if c.TransactMaxRetries > 64 {
			log.Println("WARNING: TRANSACT_MAX_RETRIES is very high; hot keys will stall callers.")
		}
	}

	return nil
}
