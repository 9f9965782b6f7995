package domain

import (
	"github.com/allisson/tokenbox/internal/errors"
)

// Token error definitions.
var (
	// ErrTokenNotFound indicates a token with the specified serial was not found.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")
)
