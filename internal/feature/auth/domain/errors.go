// Package domain defines domain-level errors for the auth feature.
package domain

import "blog_backend/internal/shared/apperr"

// Domain errors for authentication operations. They are apperr values so the
// transport layer can map them without knowing the business rules.
var (
	// ErrUserAlreadyExists is returned when the normalized email is taken.
	ErrUserAlreadyExists = apperr.Conflict("Email already in use")

	// ErrUserNotFound is returned by the store when no row matches.
	ErrUserNotFound = apperr.NotFound("user not found")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")
)
