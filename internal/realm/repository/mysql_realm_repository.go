package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/tokenbox/internal/database"
	apperrors "github.com/allisson/tokenbox/internal/errors"
	realmDomain "github.com/allisson/tokenbox/internal/realm/domain"
)

// MySQLRealmRepository implements realm persistence for MySQL databases.
type MySQLRealmRepository struct {
	db *sql.DB
}

// Create inserts a new realm.
func (m *MySQLRealmRepository) Create(ctx context.Context, realm *realmDomain.Realm) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO realms (id, name, is_default, created_at) VALUES (?, ?, ?, ?)`

	_, err := querier.ExecContext(ctx, query, realm.ID.String(), realm.Name, realm.IsDefault, realm.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create realm")
	}
	return nil
}

// GetByName retrieves a realm by its unique name.
func (m *MySQLRealmRepository) GetByName(
	ctx context.Context,
	name string,
) (*realmDomain.Realm, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, is_default, created_at FROM realms WHERE name = ?`

	var realm realmDomain.Realm
	err := querier.QueryRowContext(ctx, query, name).Scan(
		&realm.ID,
		&realm.Name,
		&realm.IsDefault,
		&realm.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, realmDomain.ErrRealmNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get realm by name")
	}

	return &realm, nil
}

// GetDefault retrieves the realm marked as default.
func (m *MySQLRealmRepository) GetDefault(ctx context.Context) (*realmDomain.Realm, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, is_default, created_at FROM realms WHERE is_default = 1 LIMIT 1`

	var realm realmDomain.Realm
	err := querier.QueryRowContext(ctx, query).Scan(
		&realm.ID,
		&realm.Name,
		&realm.IsDefault,
		&realm.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, realmDomain.ErrNoDefaultRealm
		}
		return nil, apperrors.Wrap(err, "failed to get default realm")
	}

	return &realm, nil
}

// List retrieves all realms ordered by name.
func (m *MySQLRealmRepository) List(ctx context.Context) ([]*realmDomain.Realm, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, is_default, created_at FROM realms ORDER BY name`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list realms")
	}
	defer rows.Close()

	var realms []*realmDomain.Realm
	for rows.Next() {
		var realm realmDomain.Realm
		if err := rows.Scan(&realm.ID, &realm.Name, &realm.IsDefault, &realm.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan realm")
		}
		realms = append(realms, &realm)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate realms")
	}

	return realms, nil
}

// NewMySQLRealmRepository creates a new MySQL realm repository instance.
func NewMySQLRealmRepository(db *sql.DB) *MySQLRealmRepository {
	return &MySQLRealmRepository{db: db}
}
