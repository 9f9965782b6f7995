package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/tokenbox/internal/database"
	apperrors "github.com/allisson/tokenbox/internal/errors"
	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
)

// MySQLUserRepository implements user persistence for MySQL databases.
type MySQLUserRepository struct {
	db *sql.DB
}

// Create inserts a new user identity.
func (m *MySQLUserRepository) Create(
	ctx context.Context,
	user *identityDomain.User,
	passwordHash string,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO users (id, login, realm, resolver, uid, password_hash)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID.String(),
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
func (m *MySQLUserRepository) GetByLoginAndRealm(
	ctx context.Context,
	login, realm string,
) (*identityDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, login, realm, resolver, uid FROM users WHERE login = ? AND realm = ?`

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
func (m *MySQLUserRepository) GetPasswordHash(
	ctx context.Context,
	login, realm string,
) (string, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT password_hash FROM users WHERE login = ? AND realm = ?`

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

// NewMySQLUserRepository creates a new MySQL user repository instance.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}
