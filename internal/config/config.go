package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the settings read from the environment by Load.
type Config struct {
	DatabaseURL    string `mapstructure:"database_url"`
	ServerPort     string `mapstructure:"server_port"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
	JWTSecret      string `mapstructure:"jwt_secret"`
	Env            string `mapstructure:"app_env"`
	Timezone       string `mapstructure:"app_timezone"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`

	// Location is Timezone resolved by Load.
	Location *time.Location `mapstructure:"-"`
}

// Load reads configuration from the environment, after loading envFiles with
// godotenv. Missing env files are ignored; variables already set win.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	setDefaults(v)
	for _, key := range []string{
		"database_url", "server_port", "allowed_origins", "jwt_secret",
		"app_env", "app_timezone", "metrics_enabled",
	} {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("allowed_origins", "http://localhost:3000")
	v.SetDefault("app_env", "production")
	v.SetDefault("app_timezone", "America/New_York")
	v.SetDefault("metrics_enabled", true)
}

// Origins splits AllowedOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// IsDev reports whether the app runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// RequireDatabase returns an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	return nil
}
