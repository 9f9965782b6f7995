package repository

import (
	"context"
	"database/sql"

	authDomain "github.com/allisson/tokenbox/internal/auth/domain"
	"github.com/allisson/tokenbox/internal/database"
	apperrors "github.com/allisson/tokenbox/internal/errors"
)

// MySQLAuthRepository implements auth persistence for MySQL databases.
type MySQLAuthRepository struct {
	db *sql.DB
}

// CreateToken stores an issued bearer token.
func (m *MySQLAuthRepository) CreateToken(
	ctx context.Context,
	token *authDomain.AuthToken,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO auth_tokens (id, token_hash, scope, login, realm, resolver, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID.String(),
		token.TokenHash,
		token.Scope,
		token.Login,
		token.Realm,
		token.Resolver,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create auth token")
	}
	return nil
}

// GetTokenByHash retrieves a token by its hash.
func (m *MySQLAuthRepository) GetTokenByHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.AuthToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, scope, login, realm, resolver, expires_at, created_at
			  FROM auth_tokens WHERE token_hash = ?`

	var token authDomain.AuthToken
	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.TokenHash,
		&token.Scope,
		&token.Login,
		&token.Realm,
		&token.Resolver,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, apperrors.Wrap(err, "failed to get auth token by hash")
	}

	return &token, nil
}

// DeleteExpiredTokens removes tokens past their expiration.
func (m *MySQLAuthRepository) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM auth_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired auth tokens")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rowsAffected, nil
}

// CreateAdmin stores an administrative account.
func (m *MySQLAuthRepository) CreateAdmin(
	ctx context.Context,
	admin *authDomain.Admin,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO admins (id, name, password_hash, active, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		admin.ID.String(),
		admin.Name,
		admin.PasswordHash,
		admin.Active,
		admin.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create admin")
	}
	return nil
}

// GetAdminByName retrieves an admin by its unique name.
func (m *MySQLAuthRepository) GetAdminByName(
	ctx context.Context,
	name string,
) (*authDomain.Admin, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, password_hash, active, created_at FROM admins WHERE name = ?`

	var admin authDomain.Admin
	err := querier.QueryRowContext(ctx, query, name).Scan(
		&admin.ID,
		&admin.Name,
		&admin.PasswordHash,
		&admin.Active,
		&admin.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, authDomain.ErrAdminNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get admin by name")
	}

	return &admin, nil
}

// NewMySQLAuthRepository creates a new MySQL auth repository instance.
func NewMySQLAuthRepository(db *sql.DB) *MySQLAuthRepository {
	return &MySQLAuthRepository{db: db}
}
