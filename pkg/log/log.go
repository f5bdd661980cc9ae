// Package log configures zerolog for the pipeline and routes recoverable
// warnings from pkg/errors into structured log events.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/strokeml/strokeml/pkg/errors"
)

// Setup initializes the global zerolog logger with the given level and
// installs the warning sink. Unknown level strings fall back to info.
func Setup(level string) zerolog.Logger {
	return SetupWriter(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// SetupWriter is Setup with an explicit output, used by tests to capture logs.
func SetupWriter(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(w).Level(lvl).With().Timestamp().Logger()

	errors.SetZerologWarnFunc(func(warning error) {
		ev := logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev.EmbedObject(obj)
		}
		ev.Msg(warning.Error())
	})

	return logger
}

// ForComponent returns a child logger tagged with a component name so each
// pipeline stage can be traced in the output.
func ForComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
