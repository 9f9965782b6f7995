// Package domain defines the authentication models: administrators, and the
// opaque bearer tokens issued to admins and resolver users.
package domain

import (
	"time"

	"github.com/google/uuid"

	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
)

// Admin is an administrative account authenticated by name and password.
type Admin struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

// AuthToken is an issued bearer token. Only the SHA-256 hash is stored; the
// plain token is returned once at login. The identity fields are empty for
// admin-scope tokens.
type AuthToken struct {
	ID        uuid.UUID
	TokenHash string
	Scope     policyDomain.Scope
	Login     string
	Realm     string
	Resolver  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiration.
func (t *AuthToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
