// Package service holds the authoring use cases shared by the HTTP API and the CLI.
package service

import (
	"errors"
	"fmt"
	"strings"

	"CardForge/internal/model"
)

// ErrValidation is returned for user input that cannot be accepted.
var ErrValidation = errors.New("validation failed")

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// asValidation reports model validation failures as ErrValidation while keeping the cause.
func asValidation(err error) error {
	if errors.Is(err, model.ErrInvalidCard) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return err
}

func requireName(name, what string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationf("%s name is required", what)
	}
	return name, nil
}
