// Package domain defines the realm catalog models. A realm is a named
// partition of the identity space; containers and users are scoped to realms.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Realm represents a named identity partition.
type Realm struct {
	ID uuid.UUID
	// Name is the unique realm identifier used in API calls.
	Name string
	// IsDefault marks the realm substituted when a request omits the realm.
	// At most one realm is the default.
	IsDefault bool
	CreatedAt time.Time
}
