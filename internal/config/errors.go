package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSettingNotFound indicates no layer sets the path.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch indicates the value has the wrong type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed indicates a value is outside its allowed range.
	ErrValidationFailed = errors.New("validation failed")
)

// TypeError is returned when a value cannot be read as the requested type.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is matches ErrTypeMismatch.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ValidationError describes one invalid setting.
type ValidationError struct {
	Path    string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Is matches ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// ValidationErrors collects every invalid setting found in one pass.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "invalid settings: " + strings.Join(msgs, "; ")
}

// Is matches ErrValidationFailed.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
