// Package domain defines identity models. A user identity is the
// (login, realm, resolver) triple; two identities are equal iff all
// three components match.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// User represents a resolved user identity.
type User struct {
	ID uuid.UUID
	// Login is the user name inside the realm.
	Login string
	// Realm is the identity partition the user was resolved in.
	Realm string
	// Resolver is the name of the resolver that produced this identity.
	Resolver string
	// UID is the identifier assigned by the resolver.
	UID string
}

// Equal reports whether two identities refer to the same user.
// Identity equality is defined over the (login, realm, resolver) triple.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return false
	}
	return u.Login == other.Login && u.Realm == other.Realm && u.Resolver == other.Resolver
}

// String renders the identity as login.resolver@realm.
func (u *User) String() string {
	return fmt.Sprintf("<%s.%s@%s>", u.Login, u.Resolver, u.Realm)
}
