package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger for one binary (api, resumer). Every
// line carries service and env; dev environments get the console writer and
// debug level.
func NewLogger(env, service string) zerolog.Logger {
	return newLogger(os.Stdout, env, service)
}

func newLogger(w io.Writer, env, service string) zerolog.Logger {
	level := zerolog.InfoLevel
	if env == "dev" || env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", "lokvista-"+service).
		Str("env", env).
		Logger()
}
