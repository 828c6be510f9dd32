package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "data/assignments.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.SecretGenerated)
	assert.Len(t, cfg.SessionSecret, 64)
	assert.False(t, cfg.GitHubEnabled())
	assert.Equal(t, "http://localhost:8080/auth/github/callback", cfg.GitHubCallbackURL)
}

func TestFromViper_Overrides(t *testing.T) {
	v := newViper()
	v.Set("PORT", "9090")
	v.Set("SESSION_SECRET", "0123456789abcdef-long-enough")
	v.Set("SESSION_TTL", "2h")
	v.Set("COOKIE_SECURE", "true")
	v.Set("LOG_FORMAT", "JSON")
	v.Set("GITHUB_CLIENT_ID", "id")
	v.Set("GITHUB_CLIENT_SECRET", "secret")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.SecretGenerated)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.GitHubEnabled())
	assert.Equal(t, "http://localhost:9090/auth/github/callback", cfg.GitHubCallbackURL)
}

func TestFromViper_Rejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"port out of range", "PORT", 70000},
		{"empty db path", "DB_PATH", ""},
		{"zero ttl", "SESSION_TTL", "0s"},
		{"short secret", "SESSION_SECRET", "short"},
		{"unknown log format", "LOG_FORMAT", "xml"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := newViper()
			v.Set(tc.key, tc.val)
			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("DB_PATH=/tmp/from-dotenv.db\nLOG_LEVEL=debug\n"), 0o600))

	t.Setenv("ENV_FILE", envPath)
	t.Setenv("LOG_LEVEL", "warn") // real environment wins over .env
	// godotenv sets DB_PATH with os.Setenv; Setenv first so the test restores it.
	t.Setenv("DB_PATH", "")
	require.NoError(t, os.Unsetenv("DB_PATH"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	_, err := Load()
	assert.NoError(t, err)
}
