// Package config sources runtime settings from the environment with sane
// development defaults.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is everything the server binary needs to start.
type Config struct {
	Port        string `mapstructure:"port"`
	Storage     string `mapstructure:"storage"` // "in-memory" or "postgres"
	DatabaseURL string `mapstructure:"database_url"`
}

// Load reads INKPOST_* environment variables (INKPOST_PORT,
// INKPOST_STORAGE, INKPOST_DATABASE_URL) over the defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("inkpost")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("storage", "in-memory")
	v.SetDefault("database_url", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
