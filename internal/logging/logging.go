package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

type Options struct {
	Level  string
	Format string
	// Path is the log file. Empty writes to Output instead.
	Path   string
	Output io.Writer
}

// New builds the application logger. The returned closer releases the log
// file, if one was opened.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)

	switch opts.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}

	var closer io.Closer = nopCloser{}
	switch {
	case opts.Path != "":
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(f)
		closer = f
	case opts.Output != nil:
		logger.SetOutput(opts.Output)
	default:
		logger.SetOutput(os.Stderr)
	}
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
