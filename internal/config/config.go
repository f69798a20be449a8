package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLogLevel      = "GR2VIEW_LOG_LEVEL"
	EnvJSONLogs      = "GR2VIEW_JSON_LOGS"
	EnvDebug         = "GR2VIEW_DEBUG"
	EnvFrameInterval = "GR2VIEW_FRAME_INTERVAL"

	DefaultFrameInterval = 16 * time.Millisecond
)

type Config struct {
	LogLevel      string
	JSONLogs      bool
	Debug         bool
	FrameInterval time.Duration
}

func Default() Config {
	return Config{
		LogLevel:      "info",
		FrameInterval: DefaultFrameInterval,
	}
}

// Load reads .env from the working directory when present, then the
// process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		cfg, cfgErr := FromLookup(os.Getenv)
		return cfg, errors.Join(fmt.Errorf("load .env: %w", err), cfgErr)
	}
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from getenv. Invalid values keep their
// defaults and are reported together in the returned error.
func FromLookup(getenv func(string) string) (Config, error) {
	cfg := Default()
	var errs []error

	cfg.Debug = getenv(EnvDebug) == "true"
	cfg.JSONLogs = getenv(EnvJSONLogs) == "true"

	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	if level := strings.ToLower(strings.TrimSpace(getenv(EnvLogLevel))); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		default:
			errs = append(errs, fmt.Errorf("%s: unknown level %q", EnvLogLevel, level))
		}
	}

	if raw := strings.TrimSpace(getenv(EnvFrameInterval)); raw != "" {
		interval, err := time.ParseDuration(raw)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", EnvFrameInterval, err))
		case interval <= 0:
			errs = append(errs, fmt.Errorf("%s: must be positive, got %s", EnvFrameInterval, interval))
		default:
			cfg.FrameInterval = interval
		}
	}

	return cfg, errors.Join(errs...)
}
