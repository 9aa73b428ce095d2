// Package config loads fhirview-serve's runtime configuration from the
// environment and an optional .env file, following the teacher pack's
// viper-based configuration loader shape.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds fhirview-serve's runtime settings.
type Config struct {
	Port                string `mapstructure:"PORT"`
	LogLevel            string `mapstructure:"LOG_LEVEL"`
	WorkerCount         int    `mapstructure:"WORKER_COUNT"`
	ExpressionCacheSize int    `mapstructure:"EXPRESSION_CACHE_SIZE"`
	StrictNames         bool   `mapstructure:"STRICT_NAMES"`
	MaxRequestBytes     int64  `mapstructure:"MAX_REQUEST_BYTES"`
}

// Load reads configuration from environment variables (optionally
// backed by a ".env" file in the working directory), applying defaults
// for anything left unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WORKER_COUNT", 0)
	v.SetDefault("EXPRESSION_CACHE_SIZE", 2000)
	v.SetDefault("STRICT_NAMES", true)
	v.SetDefault("MAX_REQUEST_BYTES", int64(10<<20))

	v.BindEnv("PORT")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("WORKER_COUNT")
	v.BindEnv("EXPRESSION_CACHE_SIZE")
	v.BindEnv("STRICT_NAMES")
	v.BindEnv("MAX_REQUEST_BYTES")

	// Missing .env is not an error; environment variables alone are a
	// valid configuration source.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
