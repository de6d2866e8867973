package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

// HTTPConfig holds server settings.
type HTTPConfig struct {
	Addr         string `mapstructure:"addr"`
	RateBurst    int    `mapstructure:"rate_burst"`
	RatePerSec   int    `mapstructure:"rate_per_sec"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

// DatabaseConfig holds Postgres settings. An empty DSN selects the
// in-memory stores.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// BootstrapConfig holds the administrator account created on first seed.
type BootstrapConfig struct {
	Name     string `mapstructure:"name"`
	NIP      string `mapstructure:"nip"`
	Password string `mapstructure:"password"`
	WorkUnit string `mapstructure:"work_unit"`
}

// Load reads configuration from an optional TOML file and the environment.
// Env var overrides use the prefix DISPOSISI_, e.g. DISPOSISI_DATABASE_DSN.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.rate_burst", 30)
	v.SetDefault("http.rate_per_sec", 10)
	v.SetDefault("http.max_body_bytes", 1<<20)
	v.SetDefault("database.dsn", "")
	v.SetDefault("bootstrap.name", "Administrator")
	v.SetDefault("bootstrap.nip", "")
	v.SetDefault("bootstrap.password", "")
	v.SetDefault("bootstrap.work_unit", "")

	v.SetConfigType("toml")
	v.SetConfigName("disposisi")
	v.AddConfigPath("/etc/disposisi")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DISPOSISI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
