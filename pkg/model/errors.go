package model

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched (through errors.Is) by every ConfigurationError
var ErrConfiguration = errors.New("invalid projection configuration")

// ConfigurationError reports a structurally invalid projection configuration. No enumeration is possible when it's returned.
type ConfigurationError struct {
	Reason string
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrConfiguration, err.Reason)
}

func (err *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configurationErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// Warning is a non-fatal notice surfaced alongside a successful draw
type Warning struct {
	Message string
}
