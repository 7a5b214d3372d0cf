// Package logger provides the process-wide zerolog logger.
//
// Call Init once at startup, then Get anywhere else.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Defaults to "info" when empty or unrecognised.
	Level string
	// Pretty switches to coloured console output. Production emits JSON.
	Pretty bool
	// Service is attached to every entry as the "service" field when set.
	Service string
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	instance    zerolog.Logger
	once        sync.Once
	initialized bool
)

// Init builds the logger. Only the first call has any effect.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		ctx := zerolog.New(out).Level(lvl).With().Timestamp()
		if opts.Service != "" {
			ctx = ctx.Str("service", opts.Service)
		}
		instance = ctx.Caller().Logger()

		initialized = true
	})
	return instance
}

// Get returns the logger. Panics if Init has not been called yet.
func Get() zerolog.Logger {
	if !initialized {
		panic("logger: Get() called before Init()")
	}
	return instance
}

// Component returns a child logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset tears down the logger so the next Init rebuilds it. Tests only.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	initialized = false
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
