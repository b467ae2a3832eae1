// Package common provides shared dependencies and helpers for CLI commands.
package common

import (
	"errors"

	"github.com/jonesrussell/newsdigest/internal/config"
	"github.com/jonesrussell/newsdigest/internal/logger"
)

var (
	// ErrLoggerRequired is returned when a logger is not provided.
	ErrLoggerRequired = errors.New("logger is required")
	// ErrConfigRequired is returned when a config is not provided.
	ErrConfigRequired = errors.New("config is required")
)

// CommandDeps holds common dependencies for CLI commands.
type CommandDeps struct {
	Logger logger.Interface
	Config *config.Config
}

// Validate checks that all required dependencies are present.
func (d *CommandDeps) Validate() error {
	if d.Logger == nil {
		return ErrLoggerRequired
	}
	if d.Config == nil {
		return ErrConfigRequired
	}
	return nil
}
