package resolver

import (
	"errors"
	"fmt"
)

// ConfigurationError represents an invalid use-repository pattern. It is never absorbed silently.
type ConfigurationError struct {
	Pattern      string
	causingError error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid use-repository pattern '%s': %v", e.Pattern, e.causingError)
}

func (e *ConfigurationError) Unwrap() error {
	return e.causingError
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(pattern string, err error) error {
	return &ConfigurationError{Pattern: pattern, causingError: err}
}

// IsConfigurationError checks if the given error is a configuration error
func IsConfigurationError(err error) bool {
	var confErr *ConfigurationError
	return errors.As(err, &confErr)
}
