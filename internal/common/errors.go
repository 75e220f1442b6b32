// Package common defines shared constants and sentinel errors used across
// the KrishiRakshak server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrorProfileIncomplete is returned when scoring is requested before the
	// user has stored any farm details.
	ErrorProfileIncomplete = errors.New("profile incomplete")

	// ErrInvalidToken is the only error the token service reports to callers,
	// whatever the reason the token was rejected.
	ErrInvalidToken = errors.New("invalid token")
)
