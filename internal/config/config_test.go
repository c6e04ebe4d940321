package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no joe-tasks.yaml in sight

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.Equal(t, "tasks.db", cfg.DB.DSN)
	assert.Equal(t, 720*time.Hour, cfg.SessionLifetime)
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.InsecureCookies)
	assert.Equal(t, "@every 1m", cfg.Metrics.Refresh)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKS_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("TASKS_DB_DRIVER", "postgres")
	t.Setenv("TASKS_DB_DSN", "postgres://localhost/tasks")
	t.Setenv("TASKS_SESSION_LIFETIME", "1h")
	t.Setenv("TASKS_INSECURE_COOKIES", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "postgres://localhost/tasks", cfg.DB.DSN)
	assert.Equal(t, time.Hour, cfg.SessionLifetime)
	assert.True(t, cfg.InsecureCookies)
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKS_DB_DRIVER", "oracle")

	_, err := Load()
	assert.ErrorContains(t, err, "TASKS_DB_DRIVER")
}

func TestLoad_InvalidLifetime(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKS_SESSION_LIFETIME", "forever")

	_, err := Load()
	assert.ErrorContains(t, err, "TASKS_SESSION_LIFETIME")
}

func TestLoad_PartialOIDC(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKS_OIDC_ISSUER", "https://idp.example.com")
	t.Setenv("TASKS_OIDC_CLIENT_ID", "tasks")

	_, err := Load()
	assert.ErrorContains(t, err, "TASKS_OIDC_CLIENT_SECRET")
}

func TestLoad_FullOIDC(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKS_OIDC_ISSUER", "https://idp.example.com")
	t.Setenv("TASKS_OIDC_CLIENT_ID", "tasks")
	t.Setenv("TASKS_OIDC_CLIENT_SECRET", "secret")
	t.Setenv("TASKS_OIDC_REDIRECT_URL", "http://localhost:8080/auth/callback")
	t.Setenv("TASKS_ADMIN_EMAIL", "admin@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
}

func TestLoad_CORSOrigins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKS_CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	yaml := "http:\n  addr: \":9999\"\ndb:\n  dsn: other.db\nmetrics:\n  refresh: \"@every 5m\"\n"
	require.NoError(t, os.WriteFile("joe-tasks.yaml", []byte(yaml), 0o600))
	t.Setenv("TASKS_DB_DSN", "env.db") // env wins over the file

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, "env.db", cfg.DB.DSN)
	assert.Equal(t, "@every 5m", cfg.Metrics.Refresh)
}
