// Package logger provides a thin wrapper around zerolog.Logger with the
// constructors and context helpers used throughout the bot.
package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger embeds zerolog.Logger so the full zerolog API is available directly.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a JSON logger writing to stdout, tagged with a role
// label ("bot", "function") for filtering logs of different entry points.
func NewLogger(role string) *Logger {
	logger := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Logger()

	return &Logger{logger}
}

// Nop returns a *Logger that discards all output. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// FromContext extracts the zerolog.Logger attached to ctx, falling back to
// zerolog's global logger when none was attached. Never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
