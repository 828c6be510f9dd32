// Package config loads server settings from the environment.
//
// SOURCES, lowest to highest priority:
//  1. defaults set below
//  2. a .env file in the working directory (or the path in ENV_FILE), if present
//  3. real environment variables
//
// godotenv never overwrites a variable that is already set, so an exported
// variable always beats the .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the fully resolved server configuration.
type Config struct {
	Port   int
	DBPath string

	SessionSecret string
	// SecretGenerated is true when SESSION_SECRET was unset and a random one
	// was made up; every restart then logs all users out.
	SecretGenerated bool
	SessionTTL      time.Duration
	CookieSecure    bool
	SessionPurge    time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string

	EventBuffer int

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// GitHubEnabled reports whether the optional GitHub sign-in is configured.
func (c Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// Load reads .env (if any) and the environment into a Config.
func Load() (Config, error) {
	envFile := ".env"
	if v := os.Getenv("ENV_FILE"); v != "" {
		envFile = v
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: loading %s: %w", envFile, err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_PATH", "data/assignments.db")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("SESSION_PURGE_INTERVAL", 15*time.Minute)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("EVENT_BUFFER", 16)
	v.SetDefault("GITHUB_CLIENT_ID", "")
	v.SetDefault("GITHUB_CLIENT_SECRET", "")
	v.SetDefault("GITHUB_CALLBACK_URL", "")

	v.AutomaticEnv()
	return v
}

// FromViper converts and validates the values held by v. Tests call it with
// a viper instance populated through Set.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:               v.GetInt("PORT"),
		DBPath:             v.GetString("DB_PATH"),
		SessionSecret:      v.GetString("SESSION_SECRET"),
		SessionTTL:         v.GetDuration("SESSION_TTL"),
		SessionPurge:       v.GetDuration("SESSION_PURGE_INTERVAL"),
		CookieSecure:       v.GetBool("COOKIE_SECURE"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:          strings.ToLower(v.GetString("LOG_FORMAT")),
		LogFile:            v.GetString("LOG_FILE"),
		EventBuffer:        v.GetInt("EVENT_BUFFER"),
		GitHubClientID:     v.GetString("GITHUB_CLIENT_ID"),
		GitHubClientSecret: v.GetString("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  v.GetString("GITHUB_CALLBACK_URL"),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: PORT %d out of range", cfg.Port)
	}
	if cfg.DBPath == "" {
		return Config{}, errors.New("config: DB_PATH must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("config: SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.SessionPurge <= 0 {
		return Config{}, fmt.Errorf("config: SESSION_PURGE_INTERVAL must be positive, got %s", cfg.SessionPurge)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("config: LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, err
		}
		cfg.SessionSecret = secret
		cfg.SecretGenerated = true
	} else if len(cfg.SessionSecret) < 16 {
		return Config{}, errors.New("config: SESSION_SECRET must be at least 16 characters")
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("config: generating session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
