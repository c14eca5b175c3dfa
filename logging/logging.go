// Package logging builds logrus loggers from configuration.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/najoast/actorhost/config"
)

// New returns a logger configured by cfg, and a closer for any file it
// opened. The closer is never nil.
func New(cfg config.LogConfig) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	if err := SetLevel(logger, cfg.Level); err != nil {
		return nil, nil, err
	}

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrInvalidLogFormat, cfg.Format)
	}

	out, closer, err := openOutput(cfg.Output)
	if err != nil {
		return nil, nil, err
	}
	logger.SetOutput(out)

	return logger, closer, nil
}

// Entry returns an entry carrying cfg.Fields
func Entry(logger *logrus.Logger, cfg config.LogConfig) *logrus.Entry {
	return logger.WithFields(logrus.Fields(cfg.Fields))
}

// SetLevel applies level to logger. An empty level leaves it unchanged.
func SetLevel(logger *logrus.Logger, level config.LogLevel) error {
	if level == "" {
		return nil
	}
	parsed, err := logrus.ParseLevel(level.String())
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidLogLevel, err)
	}
	logger.SetLevel(parsed)
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openOutput(output string) (io.Writer, io.Closer, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, nopCloser{}, nil
	case "stdout":
		return os.Stdout, nopCloser{}, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log output %s: %w", output, err)
		}
		return f, f, nil
	}
}
