// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Target errors
	ErrEmptyTarget   = errors.New("target cannot be empty")
	ErrInvalidDomain = errors.New("invalid domain format")

	// Category errors
	ErrUnknownCategory = errors.New("unknown lookup category")

	// Export errors
	ErrNilRecord         = errors.New("record cannot be nil")
	ErrInvalidOutputPath = errors.New("invalid output path")
	ErrInvalidReport     = errors.New("rendered report failed validation")
)
