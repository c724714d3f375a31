package sim

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by Reset and Advance on a port that has never
// been configured. The port is left untouched.
var ErrNotConfigured = errors.New("port is not configured")

// ErrClockOverflow is returned by Advance when the clock would pass MaxClock.
// The port is left untouched.
var ErrClockOverflow = errors.New("clock would pass its maximum")

// ConfigError reports a structurally or semantically invalid configuration.
// A rejected configuration never replaces the one already installed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
