// Package config loads server configuration from .env, environment
// variables, and an optional config file, in that order of discovery.
// Environment variables use the INVOICE_ prefix (INVOICE_PORT, ...).
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port           int      `mapstructure:"port"`
	DBPath         string   `mapstructure:"db_path"`
	Language       string   `mapstructure:"language"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration, falling back to defaults when no file or
// environment overrides are present.
func Load() (*Config, error) {
	// .env is optional, dev convenience only.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "invoice.db")
	v.SetDefault("language", "en")
	v.SetDefault("allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})

	v.SetConfigName("invoice")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/invoice-engine")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
