package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port            string
	AWSRegion       string
	S3Bucket        string
	JWTSecret       string
	TokenTTL        time.Duration
	SweepInterval   time.Duration
	CleanupInterval time.Duration
}

// Load reads configuration from environment variables or a .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Missing .env is fine in deployed environments
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("JWT_EXPIRY_MIN", 60)
	viper.SetDefault("SWEEP_INTERVAL_MIN", 15)
	viper.SetDefault("CLEANUP_INTERVAL_MIN", 60)

	config := &Config{
		Port:            viper.GetString("PORT"),
		AWSRegion:       viper.GetString("AWS_REGION"),
		S3Bucket:        viper.GetString("S3_BUCKET_NAME"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		TokenTTL:        time.Duration(viper.GetInt("JWT_EXPIRY_MIN")) * time.Minute,
		SweepInterval:   time.Duration(viper.GetInt("SWEEP_INTERVAL_MIN")) * time.Minute,
		CleanupInterval: time.Duration(viper.GetInt("CLEANUP_INTERVAL_MIN")) * time.Minute,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks critical configuration values.
func (c *Config) Validate() error {
	if c.AWSRegion == "" {
		return fmt.Errorf("AWS region is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	return nil
}
