// Package config reads process settings from the environment, after
// loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Port           string
	LogLevel       zapcore.Level
	Env            string
	WordlistPath   string
	DictionaryPath string
	DatabaseURL    string
	AllowedOrigins []string
	GracePeriod    time.Duration
	RematchWindow  time.Duration
}

func (c Config) Addr() string { return ":" + c.Port }

func (c Config) Development() bool { return c.Env == "development" }

// Load reads .env (if any) and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, which behaves like os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	c := Config{
		Port:           get("PORT", "8080"),
		Env:            get("APP_ENV", "production"),
		WordlistPath:   get("WORDLIST_PATH", ""),
		DictionaryPath: get("DICTIONARY_PATH", ""),
		DatabaseURL:    get("DATABASE_URL", ""),
	}

	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return Config{}, fmt.Errorf("PORT %q: %w", c.Port, err)
	}

	level, err := zapcore.ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	c.LogLevel = level

	if c.GracePeriod, err = duration(get("GRACE_PERIOD", "30s")); err != nil {
		return Config{}, fmt.Errorf("GRACE_PERIOD: %w", err)
	}
	if c.RematchWindow, err = duration(get("REMATCH_WINDOW", "30s")); err != nil {
		return Config{}, fmt.Errorf("REMATCH_WINDOW: %w", err)
	}

	for _, o := range strings.Split(get("ALLOWED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.AllowedOrigins = append(c.AllowedOrigins, o)
		}
	}
	return c, nil
}

var errNotPositive = errors.New("must be positive")

func duration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errNotPositive
	}
	return d, nil
}
