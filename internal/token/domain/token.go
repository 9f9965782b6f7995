// Package domain defines the token catalog models. Tokens are external
// credentials referenced by serial; the container core never creates or
// destroys the credential itself, it only binds serials to containers.
package domain

import (
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
)

// Token represents an authentication credential known by its serial.
type Token struct {
	ID uuid.UUID
	// Serial is the unique external identifier of the token.
	Serial string
	// Type is the credential type (e.g. "hotp", "totp").
	Type string
	// Owner is the owning identity, nil for unassigned tokens.
	Owner *identityDomain.User
	// ContainerSerial is the serial of the container the token is bound to,
	// empty when unbound. A token belongs to at most one container.
	ContainerSerial string
	CreatedAt       time.Time
}
