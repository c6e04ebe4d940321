package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings read from TASKS_* env vars and the optional joe-tasks.yaml.
type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	OIDC struct {
		Issuer       string
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	CORS struct {
		AllowedOrigins []string
	}
	Metrics struct {
		Refresh string // cron spec for re-reading the task count
	}
	AdminEmail      string
	SessionLifetime time.Duration
	InsecureCookies bool
	Debug           bool
}

// AuthEnabled reports whether OIDC login guards the task list.
func (c *Config) AuthEnabled() bool {
	return c.OIDC.Issuer != ""
}

// Load reads config from environment (TASKS_ prefix) and optional joe-tasks.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TASKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("joe-tasks")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "tasks.db")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("insecure_cookies", false)
	v.SetDefault("debug", false)
	v.SetDefault("metrics.refresh", "@every 1m")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.OIDC.Issuer = v.GetString("oidc.issuer")
	cfg.OIDC.ClientID = v.GetString("oidc.client_id")
	cfg.OIDC.ClientSecret = v.GetString("oidc.client_secret")
	cfg.OIDC.RedirectURL = v.GetString("oidc.redirect_url")
	cfg.AdminEmail = v.GetString("admin_email")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")
	cfg.Debug = v.GetBool("debug")
	cfg.Metrics.Refresh = v.GetString("metrics.refresh")
	cfg.CORS.AllowedOrigins = splitList(v.GetString("cors.allowed_origins"))

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid TASKS_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	switch cfg.DB.Driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("TASKS_DB_DRIVER must be sqlite3, mysql, or postgres, got %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("TASKS_DB_DSN is required")
	}

	// OIDC is optional, but once an issuer is set the rest of the client
	// registration must be present too.
	if cfg.AuthEnabled() {
		if cfg.OIDC.ClientID == "" {
			return nil, fmt.Errorf("TASKS_OIDC_CLIENT_ID is required when TASKS_OIDC_ISSUER is set")
		}
		if cfg.OIDC.ClientSecret == "" {
			return nil, fmt.Errorf("TASKS_OIDC_CLIENT_SECRET is required when TASKS_OIDC_ISSUER is set")
		}
		if cfg.OIDC.RedirectURL == "" {
			return nil, fmt.Errorf("TASKS_OIDC_REDIRECT_URL is required when TASKS_OIDC_ISSUER is set")
		}
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var res []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}
