package model

import "errors"

// Error kinds raised by the core. Callers match them with errors.Is; the
// message after the kind is meant for logs and API error bodies.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrProfileIncomplete = errors.New("profile incomplete")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
)
