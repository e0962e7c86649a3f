package config

import (
	"errors"
	"fmt"
)

var (
	ErrConfigMissing          = errors.New("configuration file not found")
	ErrConfigIncomplete       = errors.New("AWS configuration incomplete")
	ErrUnsupportedEnvironment = errors.New("HOME is not set; rural only supports POSIX environments")
)

// MissingFieldError is returned by Load when a required key is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("config is missing key %q", e.Field)
}

// Is lets errors.Is(err, ErrConfigIncomplete) match missing keys too.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrConfigIncomplete
}
