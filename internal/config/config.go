package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings. Values come from the environment (optionally
// seeded from a .env file) and may be overridden by command-line flags.
type Config struct {
	TickInterval time.Duration
	Player       string
	PrefsBackend string // file, keyring
	PrefsFile    string
	LogFile      string
	LogLevel     string
	LogFormat    string // json, console
}

const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// Load reads envFile if it exists and builds a Config from TVOCAB_* variables.
// An empty envFile means ".env" in the working directory.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		TickInterval: 300 * time.Millisecond,
		Player:       getEnv("TVOCAB_PLAYER", "mpv"),
		PrefsBackend: strings.ToLower(getEnv("TVOCAB_PREFS_BACKEND", BackendFile)),
		PrefsFile:    os.Getenv("TVOCAB_PREFS_FILE"),
		LogFile:      getEnv("TVOCAB_LOG_FILE", filepath.Join(os.TempDir(), "tvocab.log")),
		LogLevel:     getEnv("TVOCAB_LOG_LEVEL", "info"),
		LogFormat:    getEnv("TVOCAB_LOG_FORMAT", "json"),
	}

	if v := os.Getenv("TVOCAB_TICK_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TVOCAB_TICK_MS %q: %w", v, err)
		}
		cfg.TickInterval = time.Duration(ms) * time.Millisecond
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.PrefsBackend != BackendFile && c.PrefsBackend != BackendKeyring {
		return fmt.Errorf("unknown preferences backend %q", c.PrefsBackend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
