package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init replaces the global logger. An unknown level falls back to info.
func Init(level string, pretty bool) {
	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	SetOutput(w, level)
}

// SetOutput sends log lines to w at level. Tests use it to silence or capture output.
func SetOutput(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func Debug() *zerolog.Event { return get().Debug() }

func Info() *zerolog.Event { return get().Info() }

func Warn() *zerolog.Event { return get().Warn() }

func Error() *zerolog.Event { return get().Error() }

func Fatal() *zerolog.Event { return get().Fatal() }
