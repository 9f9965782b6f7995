package domain

import (
	"github.com/allisson/tokenbox/internal/errors"
)

// Realm error definitions.
var (
	// ErrRealmNotFound indicates a realm with the specified name was not found.
	ErrRealmNotFound = errors.Wrap(errors.ErrNotFound, "realm not found")

	// ErrNoDefaultRealm indicates no realm is configured as the default.
	ErrNoDefaultRealm = errors.Wrap(errors.ErrNotFound, "no default realm configured")
)
