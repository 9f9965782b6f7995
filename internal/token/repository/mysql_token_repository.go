package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/tokenbox/internal/database"
	apperrors "github.com/allisson/tokenbox/internal/errors"
	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
	tokenDomain "github.com/allisson/tokenbox/internal/token/domain"
)

// MySQLTokenRepository implements token persistence for MySQL databases.
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new token into the catalog.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *tokenDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokens (id, serial, type, owner_login, owner_realm, owner_resolver, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	var ownerLogin, ownerRealm, ownerResolver sql.NullString
	if token.Owner != nil {
		ownerLogin = sql.NullString{String: token.Owner.Login, Valid: true}
		ownerRealm = sql.NullString{String: token.Owner.Realm, Valid: true}
		ownerResolver = sql.NullString{String: token.Owner.Resolver, Valid: true}
	}

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID.String(),
		token.Serial,
		token.Type,
		ownerLogin,
		ownerRealm,
		ownerResolver,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetBySerial retrieves a token by serial, including its current container
// binding (empty when the token is unbound).
func (m *MySQLTokenRepository) GetBySerial(
	ctx context.Context,
	serial string,
) (*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT t.id, t.serial, t.type, t.owner_login, t.owner_realm, t.owner_resolver,
					 t.created_at, COALESCE(c.serial, '')
			  FROM tokens t
			  LEFT JOIN container_tokens ct ON ct.token_serial = t.serial
			  LEFT JOIN containers c ON c.id = ct.container_id
			  WHERE t.serial = ?`

	var token tokenDomain.Token
	var ownerLogin, ownerRealm, ownerResolver sql.NullString
	err := querier.QueryRowContext(ctx, query, serial).Scan(
		&token.ID,
		&token.Serial,
		&token.Type,
		&ownerLogin,
		&ownerRealm,
		&ownerResolver,
		&token.CreatedAt,
		&token.ContainerSerial,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token by serial")
	}

	if ownerLogin.Valid {
		token.Owner = &identityDomain.User{
			Login:    ownerLogin.String,
			Realm:    ownerRealm.String,
			Resolver: ownerResolver.String,
		}
	}

	return &token, nil
}

// NewMySQLTokenRepository creates a new MySQL token repository instance.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
