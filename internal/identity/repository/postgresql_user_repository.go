// Package repository implements user identity persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/tokenbox/internal/database"
	apperrors "github.com/allisson/tokenbox/internal/errors"
	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
)

// PostgreSQLUserRepository implements user persistence for PostgreSQL databases.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// Create inserts a new user identity.
func (p *PostgreSQLUserRepository) Create(
	ctx context.Context,
	user *identityDomain.User,
	passwordHash string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (id, login, realm, resolver, uid, password_hash)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Login,
		user.Realm,
		user.Resolver,
		user.UID,
		passwordHash,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByLoginAndRealm retrieves a user identity by login within a realm.
func (p *PostgreSQLUserRepository) GetByLoginAndRealm(
	ctx context.Context,
	login, realm string,
) (*identityDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, login, realm, resolver, uid FROM users WHERE login = $1 AND realm = $2`

	var user identityDomain.User
	err := querier.QueryRowContext(ctx, query, login, realm).Scan(
		&user.ID,
		&user.Login,
		&user.Realm,
		&user.Resolver,
		&user.UID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, identityDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by login and realm")
	}

	return &user, nil
}

// GetPasswordHash retrieves the stored password hash for a user identity.
func (p *PostgreSQLUserRepository) GetPasswordHash(
	ctx context.Context,
	login, realm string,
) (string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT password_hash FROM users WHERE login = $1 AND realm = $2`

	var hash string
	err := querier.QueryRowContext(ctx, query, login, realm).Scan(&hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", identityDomain.ErrUserNotFound
		}
		return "", apperrors.Wrap(err, "failed to get user password hash")
	}

	return hash, nil
}

// NewPostgreSQLUserRepository creates a new PostgreSQL user repository instance.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}
