// Package logger provides logging functionality for the application.
package logger

import "errors"

// Level represents the logging level.
type Level string

const (
	// DebugLevel logs debug messages.
	DebugLevel Level = "debug"
	// InfoLevel logs info messages.
	InfoLevel Level = "info"
	// WarnLevel logs warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel logs error messages.
	ErrorLevel Level = "error"
	// FatalLevel logs fatal messages and exits.
	FatalLevel Level = "fatal"
)

// Default configuration values.
const (
	// DefaultLevel is the default logging level.
	DefaultLevel = InfoLevel
	// DefaultEncoding is the default log encoding format.
	DefaultEncoding = "console"
)

// DefaultOutputPaths is the default list of paths to write log output to.
var DefaultOutputPaths = []string{"stdout"}

// Common errors returned by the logger package.
var (
	// ErrNilConfig is returned when a nil configuration is provided.
	ErrNilConfig = errors.New("logger config is nil")
	// ErrInvalidFields is returned when invalid fields are provided to a logging method.
	ErrInvalidFields = errors.New("invalid fields: must be key-value pairs")
)

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum logging level.
	Level Level `yaml:"level" mapstructure:"level"`
	// Development enables development mode.
	Development bool `yaml:"development" mapstructure:"development"`
	// Encoding sets the logger's encoding.
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
	// OutputPaths is a list of URLs or file paths to write logging output to.
	OutputPaths []string `yaml:"output_paths" mapstructure:"output_paths"`
	// EnableColor enables colored output in development mode.
	EnableColor bool `yaml:"enable_color" mapstructure:"enable_color"`
}
