package constants

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingValue marks a constant with neither a source entry nor a default.
	ErrMissingValue = errors.New("missing value")
	// ErrInvalidValue marks a source entry that is not a finite, non-negative number.
	ErrInvalidValue = errors.New("invalid value")
	// ErrNotInitialized is returned by Get before a successful Init.
	ErrNotInitialized = errors.New("constants: not initialized")
	// ErrAlreadyInitialized is returned by a second Init on a ready store.
	ErrAlreadyInitialized = errors.New("constants: already initialized")
	// ErrInvalidSchema marks a schema that does not describe the canonical table.
	ErrInvalidSchema = errors.New("constants: invalid schema")
)

// ConfigError reports a problem with one named constant.
// Kind is ErrMissingValue or ErrInvalidValue.
type ConfigError struct {
	Kind  error
	Name  string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("constants: %v for %s", e.Kind, e.Name)
	if e.Kind == ErrInvalidValue {
		msg += fmt.Sprintf(" (%v)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func missing(name string) error {
	return &ConfigError{Kind: ErrMissingValue, Name: name}
}

func invalid(name string, value any, cause error) error {
	return &ConfigError{Kind: ErrInvalidValue, Name: name, Value: value, Err: cause}
}
