package service

import (
	"fmt"
	"io"

	"blogfront/app/config"

	"github.com/sirupsen/logrus"
)

// Version is the blogfront release, overridable at link time.
var Version = "1.0.0"

// cmdEnv bundles what every command needs once flags are parsed.
type cmdEnv struct {
	cfg    *config.Config
	logger *logrus.Logger
	close  func() error
}

// loadRuntime resolves the configuration and builds the logger. When
// logOutput is not empty it replaces the configured log output.
func loadRuntime(configPath, logOutput string) (*cmdEnv, error) {
	cfg, err := config.Load(config.New(), configPath)
	if err != nil {
		return nil, err
	}
	if logOutput != "" {
		cfg.Logger.Output = logOutput
	}
	logger, closer, err := cfg.Logger.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return &cmdEnv{cfg: cfg, logger: logger, close: closer}, nil
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
