package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger provides structured logging tagged with the emitting component.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Options selects the level and output format of New.
type Options struct {
	Level string
	JSON  bool
}

// New returns a zerolog-backed logger writing to stderr.
func New(opts Options) *ZerologAdapter {
	return NewWithWriter(os.Stderr, opts)
}

func NewWithWriter(w io.Writer, opts Options) *ZerologAdapter {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	if opts.JSON {
		return NewZerolog(w, level)
	}
	return NewZerolog(zerolog.ConsoleWriter{Out: w, NoColor: w != os.Stderr}, level)
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

func (NoOpLogger) Debug(component, message string, fields map[string]interface{})   {}
func (NoOpLogger) Info(component, message string, fields map[string]interface{})    {}
func (NoOpLogger) Warning(component, message string, fields map[string]interface{}) {}
func (NoOpLogger) Error(component string, err error, fields map[string]interface{}) {}
