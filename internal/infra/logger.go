// README: zerolog logger construction.
package infra

import (
	"io"

	"github.com/rs/zerolog"
)

// NewLogger returns a JSON logger at level; unknown levels fall back to info.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
