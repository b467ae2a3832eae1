package common

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jonesrussell/newsdigest/internal/config"
	"github.com/jonesrussell/newsdigest/internal/logger"
)

// NewCommandDeps loads configuration from viper and builds the logger,
// returning the validated dependency bundle every subcommand starts from.
func NewCommandDeps() (*CommandDeps, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	deps := &CommandDeps{
		Logger: log,
		Config: cfg,
	}
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	return deps, nil
}
