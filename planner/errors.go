package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every configuration error.
	ErrInvalidConfig = errors.New("invalid planner config")

	// ErrInvariant signals a tree that breaks its structural invariants.
	// It means an implementation defect, not a runtime condition.
	ErrInvariant = errors.New("tree invariant violated")
)

// ConfigError describes one rejected configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

// Is lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
