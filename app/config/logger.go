package config

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a logrus logger from the logger settings. The
// returned close function releases the output file, if one was opened.
func (l Logger) NewLogger() (*logrus.Logger, func() error, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	logger.SetLevel(level)

	switch l.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, nil, fmt.Errorf("invalid log format %q", l.Format)
	}

	closer := func() error { return nil }
	var out io.Writer
	switch l.Output {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "discard":
		out = io.Discard
	default:
		f, err := os.OpenFile(l.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	}
	logger.SetOutput(out)

	return logger, closer, nil
}
