// Package yamlutil wraps YAML parsing to isolate the external dependency.
// Configuration files are decoded strictly: unknown keys are errors, since a
// misspelled key would otherwise silently keep its default.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 16 MiB).
// Attachments may embed data URLs, so the limit is well above a typical
// configuration file.
var MaxInputSize = 16 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// Error is a decoding failure. Source holds a human-readable rendering of the
// failure with the offending line of the input, when available.
type Error struct {
	Err    error
	Source string
}

func (e *Error) Error() string {
	return "yamlutil: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// UnmarshalStrict decodes data into v, rejecting unknown fields.
// Fields absent from data keep the value already in v, so callers decode
// onto a struct holding defaults.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return &Error{Err: err, Source: yaml.FormatError(err, false, true)}
	}
	return nil
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// Describe returns the source-annotated message of a decoding error, or
// err.Error() for any other error.
func Describe(err error) string {
	var yerr *Error
	if errors.As(err, &yerr) && yerr.Source != "" {
		return yerr.Source
	}
	return err.Error()
}
