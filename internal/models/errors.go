package models

import "errors"

// Sentinel errors shared across engine packages. Callers branch on these
// with errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientData    = errors.New("insufficient data")
	ErrGameNotLive         = errors.New("game is not live")
	ErrProviderUnavailable = errors.New("stats provider unavailable")
	ErrNotFound            = errors.New("not found")
)
