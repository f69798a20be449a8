package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookup(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultFrameInterval, cfg.FrameInterval)
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		EnvLogLevel:      "WARN",
		EnvJSONLogs:      "true",
		EnvDebug:         "true",
		EnvFrameInterval: "40ms",
	}))
	require.NoError(t, err)
	assert.Equal(t, Config{
		LogLevel:      "warn",
		JSONLogs:      true,
		Debug:         true,
		FrameInterval: 40 * time.Millisecond,
	}, cfg)
}

func TestFromLookupDebugLowersLevel(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{EnvDebug: "true"}))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFromLookupInvalidValuesKeepDefaults(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		EnvLogLevel:      "loud",
		EnvFrameInterval: "-5ms",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvLogLevel)
	assert.Contains(t, err.Error(), EnvFrameInterval)
	assert.Equal(t, Default(), cfg)

	_, err = FromLookup(lookup(map[string]string{EnvFrameInterval: "soon"}))
	assert.ErrorContains(t, err, EnvFrameInterval)
}
