package domain

import (
	"github.com/allisson/tokenbox/internal/errors"
)

// Identity error definitions.
var (
	// ErrUserNotFound indicates the login could not be resolved in the
	// requested realm. Carries API code 904.
	ErrUserNotFound = errors.WithCode(
		errors.Wrap(errors.ErrNotFound, "the user can not be found in any resolver in this realm"),
		904,
	)
)
