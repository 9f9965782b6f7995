package domain

import (
	"github.com/allisson/tokenbox/internal/errors"
)

// Authentication error definitions.
var (
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidToken indicates an unknown or revoked bearer token.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid or expired token")

	// ErrAdminRequired indicates a user-scope actor reached an admin-only
	// surface. Distinct from a policy denial; carries API code 4033.
	ErrAdminRequired = errors.WithCode(
		errors.Wrap(errors.ErrUnauthorized, "you do not have the necessary role to request this resource"),
		4033,
	)

	// ErrAdminNotFound indicates no admin exists with the given name.
	ErrAdminNotFound = errors.Wrap(errors.ErrNotFound, "admin not found")
)
