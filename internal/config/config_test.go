package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/eventloom")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "development", cfg.Environment)
	require.Empty(t, cfg.Clerk.WebhookSecret, "webhook secret must not default")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/eventloom")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CLERK_WEBHOOK_SECRET", "whsec_abc")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "whsec_abc", cfg.Clerk.WebhookSecret)
	require.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7070
database:
  url: postgres://file-host/eventloom
environment: production
`), 0o600))

	t.Setenv("SERVER_PORT", "6060")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 6060, cfg.Server.Port, "env wins over file")
	require.Equal(t, "postgres://file-host/eventloom", cfg.Database.URL)
	require.Equal(t, "production", cfg.Environment)
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
