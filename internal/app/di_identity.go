package app

import (
	"context"
	"fmt"

	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
	identityRepository "github.com/allisson/tokenbox/internal/identity/repository"
	identityService "github.com/allisson/tokenbox/internal/identity/service"
	realmDomain "github.com/allisson/tokenbox/internal/realm/domain"
	realmRepo "github.com/allisson/tokenbox/internal/realm/repository"
	tokenDomain "github.com/allisson/tokenbox/internal/token/domain"
	tokenRepo "github.com/allisson/tokenbox/internal/token/repository"
)

// realmRepository combines the realm persistence surfaces needed across
// contexts: lookups for the resolver and realm scoper, plus catalog
// management for the CLI.
type realmRepository interface {
	Create(ctx context.Context, realm *realmDomain.Realm) error
	GetByName(ctx context.Context, name string) (*realmDomain.Realm, error)
	GetDefault(ctx context.Context) (*realmDomain.Realm, error)
	List(ctx context.Context) ([]*realmDomain.Realm, error)
}

// userRepository combines the user identity persistence surfaces needed
// across contexts.
type userRepository interface {
	Create(ctx context.Context, user *identityDomain.User, passwordHash string) error
	GetByLoginAndRealm(ctx context.Context, login, realm string) (*identityDomain.User, error)
	GetPasswordHash(ctx context.Context, login, realm string) (string, error)
}

// tokenRepository combines the token catalog surfaces needed across contexts.
type tokenRepository interface {
	Create(ctx context.Context, token *tokenDomain.Token) error
	GetBySerial(ctx context.Context, serial string) (*tokenDomain.Token, error)
}

// RealmRepository returns the realm repository instance.
func (c *Container) RealmRepository() (realmRepository, error) {
	c.realmRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["realmRepo"] = err
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.realmRepo = realmRepo.NewMySQLRealmRepository(db)
		case "postgres":
			c.realmRepo = realmRepo.NewPostgreSQLRealmRepository(db)
		default:
			c.initErrors["realmRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["realmRepo"]; exists {
		return nil, err
	}
	return c.realmRepo, nil
}

// UserRepository returns the user identity repository instance.
func (c *Container) UserRepository() (userRepository, error) {
	c.userRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userRepo"] = err
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.userRepo = identityRepository.NewMySQLUserRepository(db)
		case "postgres":
			c.userRepo = identityRepository.NewPostgreSQLUserRepository(db)
		default:
			c.initErrors["userRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["userRepo"]; exists {
		return nil, err
	}
	return c.userRepo, nil
}

// TokenRepository returns the token catalog repository instance.
func (c *Container) TokenRepository() (tokenRepository, error) {
	c.tokenRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["tokenRepo"] = err
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.tokenRepo = tokenRepo.NewMySQLTokenRepository(db)
		case "postgres":
			c.tokenRepo = tokenRepo.NewPostgreSQLTokenRepository(db)
		default:
			c.initErrors["tokenRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["tokenRepo"]; exists {
		return nil, err
	}
	return c.tokenRepo, nil
}

// Resolver returns the identity resolver instance.
func (c *Container) Resolver() (identityService.Resolver, error) {
	c.resolverInit.Do(func() {
		userRepository, err := c.UserRepository()
		if err != nil {
			c.initErrors["resolver"] = err
			return
		}

		realmRepository, err := c.RealmRepository()
		if err != nil {
			c.initErrors["resolver"] = err
			return
		}

		c.resolver = identityService.NewResolver(userRepository, realmRepository)
	})
	if err, exists := c.initErrors["resolver"]; exists {
		return nil, err
	}
	return c.resolver, nil
}
