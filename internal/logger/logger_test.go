package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Options{Level: "debug", JSON: true})

	log.Info("Shell", "file loaded", map[string]interface{}{"name": "model.gr2", "elements": 3})
	log.Error("Shell", errors.New("bad magic"), map[string]interface{}{"name": "broken.gr2"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "Shell", entries[0]["component"])
	assert.Equal(t, "file loaded", entries[0]["message"])
	assert.Equal(t, "model.gr2", entries[0]["name"])
	assert.EqualValues(t, 3, entries[0]["elements"])

	assert.Equal(t, "error", entries[1]["level"])
	assert.Equal(t, "bad magic", entries[1]["error"])
	assert.Equal(t, "operation failed", entries[1]["message"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Options{Level: "warn", JSON: true})

	log.Debug("A", "dropped", nil)
	log.Info("A", "dropped", nil)
	log.Warning("A", "kept", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["message"])
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Options{Level: "chatty", JSON: true})

	log.Debug("A", "dropped", nil)
	log.Info("A", "kept", nil)

	assert.Len(t, decodeLines(t, &buf), 1)
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, Options{Level: "info"}).Info("FrameLoop", "started", map[string]interface{}{"interval": "16ms"})

	out := buf.String()
	assert.Contains(t, out, "started")
	assert.Contains(t, out, "component=FrameLoop")
	assert.Contains(t, out, "interval=16ms")
}

func TestNoOpLogger(t *testing.T) {
	var log Logger = NoOpLogger{}
	log.Info("A", "ignored", nil)
	log.Error("A", errors.New("ignored"), nil)
}
