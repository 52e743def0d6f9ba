package logging

import (
	"io"
	"os"
	"time"

	"github.com/benbeisheim/chessnote-backend/internal/config"
	"github.com/rs/zerolog"
)

// New builds the root logger for the server.
func New(cfg config.Config) zerolog.Logger {
	return newLogger(os.Stderr, cfg)
}

func newLogger(w io.Writer, cfg config.Config) zerolog.Logger {
	if cfg.LogFormat == config.FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(cfg.LogLevel).With().Timestamp().Logger()
}
