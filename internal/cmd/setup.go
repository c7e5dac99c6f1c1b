package cmd

import (
	"fmt"
	"log/slog"

	"github.com/dshills/gobangs/internal/app"
	"github.com/dshills/gobangs/internal/config"
	"github.com/dshills/gobangs/internal/logging"
)

// loadConfig reads the config file named by --config, or the default one,
// and applies the logging flags on top
func loadConfig(opts *globalOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// setup loads the config, opens the logger, and builds the app. The returned
// cleanup closes both.
func setup(opts *globalOptions) (*app.App, *slog.Logger, func(), error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := logging.Open(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, nil, err
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		_ = closer.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
		_ = closer.Close()
	}
	return a, logger, cleanup, nil
}
