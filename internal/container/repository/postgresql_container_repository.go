// Package repository implements container persistence for PostgreSQL and
// MySQL. The container aggregate spans six tables: containers plus the
// states, info, realms, owner and token relations. Multi-table writes rely
// on the caller running inside a transaction.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	containerDomain "github.com/allisson/tokenbox/internal/container/domain"
	"github.com/allisson/tokenbox/internal/database"
	apperrors "github.com/allisson/tokenbox/internal/errors"
	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
)

// Filter narrows container listing.
type Filter struct {
	// Type filters by exact container type.
	Type containerDomain.Type
	// TokenSerial filters to containers holding the token.
	TokenSerial string
	// SerialSubstring filters by case-insensitive serial substring.
	SerialSubstring string
	// Owner filters to containers owned by the user. Used to restrict
	// self-service listings to the acting user's own containers.
	Owner *identityDomain.User
}

// PostgreSQLContainerRepository implements container persistence for PostgreSQL databases.
type PostgreSQLContainerRepository struct {
	db *sql.DB
}

// Create inserts the container record. Relations start empty; the owner, when
// present, is written by SetOwner in the same transaction.
func (p *PostgreSQLContainerRepository) Create(
	ctx context.Context,
	container *containerDomain.Container,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO containers (id, serial, type, description, last_seen, last_updated, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		container.ID,
		container.Serial,
		container.Type,
		container.Description,
		container.LastSeen,
		container.LastUpdated,
		container.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create container")
	}
	return nil
}

// GetBySerial loads the full container aggregate.
func (p *PostgreSQLContainerRepository) GetBySerial(
	ctx context.Context,
	serial string,
) (*containerDomain.Container, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, serial, type, description, last_seen, last_updated, created_at
			  FROM containers WHERE serial = $1`

	var container containerDomain.Container
	err := querier.QueryRowContext(ctx, query, serial).Scan(
		&container.ID,
		&container.Serial,
		&container.Type,
		&container.Description,
		&container.LastSeen,
		&container.LastUpdated,
		&container.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, containerDomain.ErrContainerNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get container by serial")
	}

	if err := p.loadRelations(ctx, querier, &container); err != nil {
		return nil, err
	}

	return &container, nil
}

func (p *PostgreSQLContainerRepository) loadRelations(
	ctx context.Context,
	querier database.Querier,
	container *containerDomain.Container,
) error {
	states, err := queryStrings(ctx, querier,
		`SELECT state FROM container_states WHERE container_id = $1 ORDER BY state`,
		container.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to load container states")
	}
	container.States = states

	realms, err := queryStrings(ctx, querier,
		`SELECT realm_name FROM container_realms WHERE container_id = $1 ORDER BY realm_name`,
		container.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to load container realms")
	}
	container.Realms = realms

	tokens, err := queryStrings(ctx, querier,
		`SELECT token_serial FROM container_tokens WHERE container_id = $1 ORDER BY token_serial`,
		container.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to load container tokens")
	}
	container.TokenSerials = tokens

	info, err := queryInfo(ctx, querier,
		`SELECT key, value FROM container_info WHERE container_id = $1`,
		container.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to load container info")
	}
	container.Info = info

	owner, err := queryOwner(ctx, querier,
		`SELECT user_login, user_realm, user_resolver FROM container_owners WHERE container_id = $1`,
		container.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to load container owner")
	}
	container.Owner = owner

	return nil
}

// List retrieves containers matching the filter with offset pagination,
// plus the total match count.
func (p *PostgreSQLContainerRepository) List(
	ctx context.Context,
	filter Filter,
	limit, offset int,
) ([]*containerDomain.Container, int, error) {
	querier := database.GetTx(ctx, p.db)

	where, args := buildPostgreSQLFilter(filter)

	countQuery := `SELECT COUNT(*) FROM containers c` + where
	var count int
	if err := querier.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count containers")
	}

	query := `SELECT c.id, c.serial, c.type, c.description, c.last_seen, c.last_updated, c.created_at
			  FROM containers c` + where +
		fmt.Sprintf(` ORDER BY c.serial LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list containers")
	}
	defer rows.Close()

	var containers []*containerDomain.Container
	for rows.Next() {
		var container containerDomain.Container
		err := rows.Scan(
			&container.ID,
			&container.Serial,
			&container.Type,
			&container.Description,
			&container.LastSeen,
			&container.LastUpdated,
			&container.CreatedAt,
		)
		if err != nil {
			return nil, 0, apperrors.Wrap(err, "failed to scan container")
		}
		containers = append(containers, &container)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to iterate containers")
	}

	for _, container := range containers {
		if err := p.loadRelations(ctx, querier, container); err != nil {
			return nil, 0, err
		}
	}

	return containers, count, nil
}

func buildPostgreSQLFilter(filter Filter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("c.type = $%d", len(args)))
	}
	if filter.TokenSerial != "" {
		args = append(args, filter.TokenSerial)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM container_tokens ct WHERE ct.container_id = c.id AND ct.token_serial = $%d)",
			len(args)))
	}
	if filter.SerialSubstring != "" {
		args = append(args, "%"+filter.SerialSubstring+"%")
		conditions = append(conditions, fmt.Sprintf("c.serial ILIKE $%d", len(args)))
	}
	if filter.Owner != nil {
		args = append(args, filter.Owner.Login, filter.Owner.Realm, filter.Owner.Resolver)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM container_owners co WHERE co.container_id = c.id AND co.user_login = $%d AND co.user_realm = $%d AND co.user_resolver = $%d)",
			len(args)-2, len(args)-1, len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// Delete removes the container record; the relation tables cascade.
func (p *PostgreSQLContainerRepository) Delete(ctx context.Context, serial string) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM containers WHERE serial = $1`, serial)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete container")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return containerDomain.ErrContainerNotFound
	}
	return nil
}

// SetDescription updates the description and touches last_updated.
func (p *PostgreSQLContainerRepository) SetDescription(
	ctx context.Context,
	serial, description string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE containers SET description = $1, last_updated = NOW() WHERE serial = $2`

	result, err := querier.ExecContext(ctx, query, description, serial)
	if err != nil {
		return apperrors.Wrap(err, "failed to set container description")
	}
	return requireRow(result, containerDomain.ErrContainerNotFound)
}

// ReplaceStates replaces the whole state set.
func (p *PostgreSQLContainerRepository) ReplaceStates(
	ctx context.Context,
	container *containerDomain.Container,
	states []string,
) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx,
		`DELETE FROM container_states WHERE container_id = $1`, container.ID); err != nil {
		return apperrors.Wrap(err, "failed to clear container states")
	}
	for _, state := range states {
		if _, err := querier.ExecContext(ctx,
			`INSERT INTO container_states (container_id, state) VALUES ($1, $2)`,
			container.ID, state); err != nil {
			return apperrors.Wrap(err, "failed to insert container state")
		}
	}
	return p.touch(ctx, container.Serial)
}

// SetInfo upserts a single info key.
func (p *PostgreSQLContainerRepository) SetInfo(
	ctx context.Context,
	container *containerDomain.Container,
	key, value string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO container_info (container_id, key, value) VALUES ($1, $2, $3)
			  ON CONFLICT (container_id, key) DO UPDATE SET value = EXCLUDED.value`

	if _, err := querier.ExecContext(ctx, query, container.ID, key, value); err != nil {
		return apperrors.Wrap(err, "failed to set container info")
	}
	return p.touch(ctx, container.Serial)
}

// UpdateLastSeen refreshes the last_seen timestamp.
func (p *PostgreSQLContainerRepository) UpdateLastSeen(ctx context.Context, serial string) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE containers SET last_seen = NOW() WHERE serial = $1`, serial)
	if err != nil {
		return apperrors.Wrap(err, "failed to update container last seen")
	}
	return requireRow(result, containerDomain.ErrContainerNotFound)
}

// SetOwner records the owning user. The unique constraint on container_id
// backs the single-owner invariant; a violation surfaces as ErrAlreadyAssigned.
func (p *PostgreSQLContainerRepository) SetOwner(
	ctx context.Context,
	container *containerDomain.Container,
	user *identityDomain.User,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO container_owners (container_id, user_login, user_realm, user_resolver)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, container.ID, user.Login, user.Realm, user.Resolver)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return containerDomain.ErrAlreadyAssigned
		}
		return apperrors.Wrap(err, "failed to set container owner")
	}
	return p.touch(ctx, container.Serial)
}

// RemoveOwner unbinds the named user. Returns false when the user was not the
// owner, which is a no-op rather than an error.
func (p *PostgreSQLContainerRepository) RemoveOwner(
	ctx context.Context,
	container *containerDomain.Container,
	user *identityDomain.User,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM container_owners
			  WHERE container_id = $1 AND user_login = $2 AND user_realm = $3 AND user_resolver = $4`

	result, err := querier.ExecContext(ctx, query, container.ID, user.Login, user.Realm, user.Resolver)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to remove container owner")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return false, nil
	}
	return true, p.touch(ctx, container.Serial)
}

// AddToken binds a token to the container. The unique constraint on
// token_serial backs the single-container invariant; a token already bound
// elsewhere reports false rather than an error.
func (p *PostgreSQLContainerRepository) AddToken(
	ctx context.Context,
	container *containerDomain.Container,
	tokenSerial string,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO container_tokens (container_id, token_serial) VALUES ($1, $2)`

	_, err := querier.ExecContext(ctx, query, container.ID, tokenSerial)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to add token to container")
	}
	return true, p.touch(ctx, container.Serial)
}

// RemoveToken unbinds a token. Returns false when the token was not bound to
// this container.
func (p *PostgreSQLContainerRepository) RemoveToken(
	ctx context.Context,
	container *containerDomain.Container,
	tokenSerial string,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM container_tokens WHERE container_id = $1 AND token_serial = $2`

	result, err := querier.ExecContext(ctx, query, container.ID, tokenSerial)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to remove token from container")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return false, nil
	}
	return true, p.touch(ctx, container.Serial)
}

// ReplaceRealms replaces the whole realm set.
func (p *PostgreSQLContainerRepository) ReplaceRealms(
	ctx context.Context,
	container *containerDomain.Container,
	realms []string,
) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx,
		`DELETE FROM container_realms WHERE container_id = $1`, container.ID); err != nil {
		return apperrors.Wrap(err, "failed to clear container realms")
	}
	for _, realm := range realms {
		if _, err := querier.ExecContext(ctx,
			`INSERT INTO container_realms (container_id, realm_name) VALUES ($1, $2)`,
			container.ID, realm); err != nil {
			return apperrors.Wrap(err, "failed to insert container realm")
		}
	}
	return p.touch(ctx, container.Serial)
}

// CreateTemplate stores a container template.
func (p *PostgreSQLContainerRepository) CreateTemplate(
	ctx context.Context,
	template *containerDomain.Template,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO container_templates (id, name, type, options, is_default, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (name) DO UPDATE
			  SET type = EXCLUDED.type, options = EXCLUDED.options, is_default = EXCLUDED.is_default`

	_, err := querier.ExecContext(
		ctx,
		query,
		template.ID,
		template.Name,
		template.Type,
		template.Options,
		template.Default,
		template.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create container template")
	}
	return nil
}

// GetTemplateByName retrieves a stored template.
func (p *PostgreSQLContainerRepository) GetTemplateByName(
	ctx context.Context,
	name string,
) (*containerDomain.Template, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, type, options, is_default, created_at
			  FROM container_templates WHERE name = $1`

	var template containerDomain.Template
	err := querier.QueryRowContext(ctx, query, name).Scan(
		&template.ID,
		&template.Name,
		&template.Type,
		&template.Options,
		&template.Default,
		&template.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, containerDomain.ErrTemplateNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get template by name")
	}

	return &template, nil
}

func (p *PostgreSQLContainerRepository) touch(ctx context.Context, serial string) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE containers SET last_updated = NOW() WHERE serial = $1`, serial)
	if err != nil {
		return apperrors.Wrap(err, "failed to update container last updated")
	}
	return nil
}

func requireRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

func queryStrings(
	ctx context.Context,
	querier database.Querier,
	query string,
	args ...any,
) ([]string, error) {
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

func queryInfo(
	ctx context.Context,
	querier database.Querier,
	query string,
	args ...any,
) (map[string]string, error) {
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	info := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		info[key] = value
	}
	return info, rows.Err()
}

func queryOwner(
	ctx context.Context,
	querier database.Querier,
	query string,
	args ...any,
) (*identityDomain.User, error) {
	var user identityDomain.User
	err := querier.QueryRowContext(ctx, query, args...).Scan(
		&user.Login,
		&user.Realm,
		&user.Resolver,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// NewPostgreSQLContainerRepository creates a new PostgreSQL container repository instance.
func NewPostgreSQLContainerRepository(db *sql.DB) *PostgreSQLContainerRepository {
	return &PostgreSQLContainerRepository{db: db}
}
