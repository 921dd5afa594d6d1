// Package logging builds the process-wide zerolog logger from config.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"venuecal/internal/config"

	"github.com/rs/zerolog"
)

// New constructs the logger. Level defaults to info, format to JSON,
// output to stdout. File output hands back a closer the caller owns;
// for other sinks the closer is nil.
func New(cfg config.LoggingConfig, app config.AppConfig) (*zerolog.Logger, io.Closer, error) {
	out, closer, err := sink(cfg)
	if err != nil {
		return nil, nil, err
	}
	if normalize(cfg.Format) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(normalize(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Environment).
		Str("version", app.Version).
		Logger()

	return &logger, closer, nil
}

func sink(cfg config.LoggingConfig) (io.Writer, io.Closer, error) {
	switch normalize(cfg.Output) {
	case "stderr":
		return os.Stderr, nil, nil
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("logging.output=file requires logging.file_path")
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, f, nil
	default:
		return os.Stdout, nil, nil
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
