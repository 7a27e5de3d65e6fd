// Package logger owns the process-wide zerolog logger for postboard-api.
//
// main builds it once with Init; code that starts after configuration is
// loaded fetches it with Get instead of threading it through every call.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the process logger.
type Options struct {
	// Level is one of trace, debug, info, warn or error. Anything else is info.
	Level string
	// Pretty switches to zerolog's console writer for local development.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is stamped on every entry as "service" when non-empty.
	Service string
}

var (
	mu    sync.RWMutex
	root  *zerolog.Logger
	build sync.Once
)

// Init builds the process logger from opts and returns it. Only the first
// call builds anything; later calls return the existing logger unchanged.
func Init(opts Options) zerolog.Logger {
	build.Do(func() {
		l := newLogger(opts)
		mu.Lock()
		root = &l
		mu.Unlock()
	})
	return Get()
}

// Get returns the logger built by Init. It panics when Init has not run,
// since logging into a zero logger would silently drop every entry.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if root == nil {
		panic("logger: Get called before Init")
	}
	return *root
}

// Reset discards the process logger so tests can call Init again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	build = sync.Once{}
	root = nil
}

func newLogger(opts Options) zerolog.Logger {
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

	ctx := zerolog.New(out).Level(lvl).With().Timestamp().Caller()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger()
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
