// Package service implements the identity resolver. The resolver translates
// a (login, realm) pair into a concrete user identity and supplies the
// configured default realm when a request omits one.
package service

import (
	"context"

	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
	realmDomain "github.com/allisson/tokenbox/internal/realm/domain"
)

// UserRepository defines the persistence operations the resolver needs.
type UserRepository interface {
	GetByLoginAndRealm(ctx context.Context, login, realm string) (*identityDomain.User, error)
}

// RealmRepository defines the realm lookups the resolver needs.
type RealmRepository interface {
	GetByName(ctx context.Context, name string) (*realmDomain.Realm, error)
	GetDefault(ctx context.Context) (*realmDomain.Realm, error)
}

// Resolver resolves login/realm pairs to unique user identities.
type Resolver interface {
	// Resolve returns the identity for login in realm, or ErrUserNotFound.
	// An empty realm is substituted with the default realm first.
	Resolve(ctx context.Context, login, realm string) (*identityDomain.User, error)

	// DefaultRealm returns the name of the configured default realm.
	DefaultRealm(ctx context.Context) (string, error)
}

// repositoryResolver implements Resolver on top of the user and realm repositories.
type repositoryResolver struct {
	userRepo  UserRepository
	realmRepo RealmRepository
}

// Resolve looks up the identity. A nonexistent realm resolves to no user,
// reported as ErrUserNotFound rather than a realm error, because the caller
// asked for a user and the distinction leaks directory internals.
func (r *repositoryResolver) Resolve(
	ctx context.Context,
	login, realm string,
) (*identityDomain.User, error) {
	if realm == "" {
		defaultRealm, err := r.DefaultRealm(ctx)
		if err != nil {
			return nil, identityDomain.ErrUserNotFound
		}
		realm = defaultRealm
	}

	if _, err := r.realmRepo.GetByName(ctx, realm); err != nil {
		return nil, identityDomain.ErrUserNotFound
	}

	return r.userRepo.GetByLoginAndRealm(ctx, login, realm)
}

// DefaultRealm returns the configured default realm name.
func (r *repositoryResolver) DefaultRealm(ctx context.Context) (string, error) {
	realm, err := r.realmRepo.GetDefault(ctx)
	if err != nil {
		return "", err
	}
	return realm.Name, nil
}

// NewResolver creates a repository-backed identity resolver.
func NewResolver(userRepo UserRepository, realmRepo RealmRepository) Resolver {
	return &repositoryResolver{userRepo: userRepo, realmRepo: realmRepo}
}
