package repository

import (
	"context"
	"database/sql"
	"strings"

	containerDomain "github.com/allisson/tokenbox/internal/container/domain"
	"github.com/allisson/tokenbox/internal/database"
	apperrors "github.com/allisson/tokenbox/internal/errors"
	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
)

// MySQLContainerRepository implements container persistence for MySQL databases.
type MySQLContainerRepository struct {
	db *sql.DB
}

// Create inserts the container record.
func (m *MySQLContainerRepository) Create(
	ctx context.Context,
	container *containerDomain.Container,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO containers (id, serial, type, description, last_seen, last_updated, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		container.ID.String(),
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
func (m *MySQLContainerRepository) GetBySerial(
	ctx context.Context,
	serial string,
) (*containerDomain.Container, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, serial, type, description, last_seen, last_updated, created_at
			  FROM containers WHERE serial = ?`

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

	if err := m.loadRelations(ctx, querier, &container); err != nil {
		return nil, err
	}

	return &container, nil
}

func (m *MySQLContainerRepository) loadRelations(
	ctx context.Context,
	querier database.Querier,
	container *containerDomain.Container,
) error {
	containerID := container.ID.String()

	states, err := queryStrings(ctx, querier,
		`SELECT state FROM container_states WHERE container_id = ? ORDER BY state`,
		containerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to load container states")
	}
	container.States = states

	realms, err := queryStrings(ctx, querier,
		`SELECT realm_name FROM container_realms WHERE container_id = ? ORDER BY realm_name`,
		containerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to load container realms")
	}
	container.Realms = realms

	tokens, err := queryStrings(ctx, querier,
		`SELECT token_serial FROM container_tokens WHERE container_id = ? ORDER BY token_serial`,
		containerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to load container tokens")
	}
	container.TokenSerials = tokens

	info, err := queryInfo(ctx, querier,
		"SELECT `key`, value FROM container_info WHERE container_id = ?",
		containerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to load container info")
	}
	container.Info = info

	owner, err := queryOwner(ctx, querier,
		`SELECT user_login, user_realm, user_resolver FROM container_owners WHERE container_id = ?`,
		containerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to load container owner")
	}
	container.Owner = owner

	return nil
}

// List retrieves containers matching the filter with offset pagination,
// plus the total match count.
func (m *MySQLContainerRepository) List(
	ctx context.Context,
	filter Filter,
	limit, offset int,
) ([]*containerDomain.Container, int, error) {
	querier := database.GetTx(ctx, m.db)

	where, args := buildMySQLFilter(filter)

	countQuery := `SELECT COUNT(*) FROM containers c` + where
	var count int
	if err := querier.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count containers")
	}

	query := `SELECT c.id, c.serial, c.type, c.description, c.last_seen, c.last_updated, c.created_at
			  FROM containers c` + where + ` ORDER BY c.serial LIMIT ? OFFSET ?`
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
		if err := m.loadRelations(ctx, querier, container); err != nil {
			return nil, 0, err
		}
	}

	return containers, count, nil
}

func buildMySQLFilter(filter Filter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Type != "" {
		conditions = append(conditions, "c.type = ?")
		args = append(args, filter.Type)
	}
	if filter.TokenSerial != "" {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM container_tokens ct WHERE ct.container_id = c.id AND ct.token_serial = ?)")
		args = append(args, filter.TokenSerial)
	}
	if filter.SerialSubstring != "" {
		conditions = append(conditions, "c.serial LIKE ?")
		args = append(args, "%"+filter.SerialSubstring+"%")
	}
	if filter.Owner != nil {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM container_owners co WHERE co.container_id = c.id AND co.user_login = ? AND co.user_realm = ? AND co.user_resolver = ?)")
		args = append(args, filter.Owner.Login, filter.Owner.Realm, filter.Owner.Resolver)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// Delete removes the container record; the relation tables cascade.
func (m *MySQLContainerRepository) Delete(ctx context.Context, serial string) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM containers WHERE serial = ?`, serial)
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
func (m *MySQLContainerRepository) SetDescription(
	ctx context.Context,
	serial, description string,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE containers SET description = ?, last_updated = NOW() WHERE serial = ?`

	result, err := querier.ExecContext(ctx, query, description, serial)
	if err != nil {
		return apperrors.Wrap(err, "failed to set container description")
	}
	return requireRow(result, containerDomain.ErrContainerNotFound)
}

// ReplaceStates replaces the whole state set.
func (m *MySQLContainerRepository) ReplaceStates(
	ctx context.Context,
	container *containerDomain.Container,
	states []string,
) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx,
		`DELETE FROM container_states WHERE container_id = ?`, container.ID.String()); err != nil {
		return apperrors.Wrap(err, "failed to clear container states")
	}
	for _, state := range states {
		if _, err := querier.ExecContext(ctx,
			`INSERT INTO container_states (container_id, state) VALUES (?, ?)`,
			container.ID.String(), state); err != nil {
			return apperrors.Wrap(err, "failed to insert container state")
		}
	}
	return m.touch(ctx, container.Serial)
}

// SetInfo upserts a single info key.
func (m *MySQLContainerRepository) SetInfo(
	ctx context.Context,
	container *containerDomain.Container,
	key, value string,
) error {
	querier := database.GetTx(ctx, m.db)

	query := "INSERT INTO container_info (container_id, `key`, value) VALUES (?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE value = VALUES(value)"

	if _, err := querier.ExecContext(ctx, query, container.ID.String(), key, value); err != nil {
		return apperrors.Wrap(err, "failed to set container info")
	}
	return m.touch(ctx, container.Serial)
}

// UpdateLastSeen refreshes the last_seen timestamp.
func (m *MySQLContainerRepository) UpdateLastSeen(ctx context.Context, serial string) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE containers SET last_seen = NOW() WHERE serial = ?`, serial)
	if err != nil {
		return apperrors.Wrap(err, "failed to update container last seen")
	}
	return requireRow(result, containerDomain.ErrContainerNotFound)
}

// SetOwner records the owning user. The unique constraint on container_id
// backs the single-owner invariant; a violation surfaces as ErrAlreadyAssigned.
func (m *MySQLContainerRepository) SetOwner(
	ctx context.Context,
	container *containerDomain.Container,
	user *identityDomain.User,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO container_owners (container_id, user_login, user_realm, user_resolver)
			  VALUES (?, ?, ?, ?)`

	_, err := querier.ExecContext(ctx, query,
		container.ID.String(), user.Login, user.Realm, user.Resolver)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return containerDomain.ErrAlreadyAssigned
		}
		return apperrors.Wrap(err, "failed to set container owner")
	}
	return m.touch(ctx, container.Serial)
}

// RemoveOwner unbinds the named user. Returns false when the user was not the
// owner, which is a no-op rather than an error.
func (m *MySQLContainerRepository) RemoveOwner(
	ctx context.Context,
	container *containerDomain.Container,
	user *identityDomain.User,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM container_owners
			  WHERE container_id = ? AND user_login = ? AND user_realm = ? AND user_resolver = ?`

	result, err := querier.ExecContext(ctx, query,
		container.ID.String(), user.Login, user.Realm, user.Resolver)
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
	return true, m.touch(ctx, container.Serial)
}

// AddToken binds a token to the container. The unique constraint on
// token_serial backs the single-container invariant; a token already bound
// elsewhere reports false rather than an error.
func (m *MySQLContainerRepository) AddToken(
	ctx context.Context,
	container *containerDomain.Container,
	tokenSerial string,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO container_tokens (container_id, token_serial) VALUES (?, ?)`

	_, err := querier.ExecContext(ctx, query, container.ID.String(), tokenSerial)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to add token to container")
	}
	return true, m.touch(ctx, container.Serial)
}

// RemoveToken unbinds a token. Returns false when the token was not bound to
// this container.
func (m *MySQLContainerRepository) RemoveToken(
	ctx context.Context,
	container *containerDomain.Container,
	tokenSerial string,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM container_tokens WHERE container_id = ? AND token_serial = ?`

	result, err := querier.ExecContext(ctx, query, container.ID.String(), tokenSerial)
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
	return true, m.touch(ctx, container.Serial)
}

// ReplaceRealms replaces the whole realm set.
func (m *MySQLContainerRepository) ReplaceRealms(
	ctx context.Context,
	container *containerDomain.Container,
	realms []string,
) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx,
		`DELETE FROM container_realms WHERE container_id = ?`, container.ID.String()); err != nil {
		return apperrors.Wrap(err, "failed to clear container realms")
	}
	for _, realm := range realms {
		if _, err := querier.ExecContext(ctx,
			`INSERT INTO container_realms (container_id, realm_name) VALUES (?, ?)`,
			container.ID.String(), realm); err != nil {
			return apperrors.Wrap(err, "failed to insert container realm")
		}
	}
	return m.touch(ctx, container.Serial)
}

// CreateTemplate stores a container template.
func (m *MySQLContainerRepository) CreateTemplate(
	ctx context.Context,
	template *containerDomain.Template,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO container_templates (id, name, type, options, is_default, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  type = VALUES(type), options = VALUES(options), is_default = VALUES(is_default)`

	_, err := querier.ExecContext(
		ctx,
		query,
		template.ID.String(),
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
func (m *MySQLContainerRepository) GetTemplateByName(
	ctx context.Context,
	name string,
) (*containerDomain.Template, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, type, options, is_default, created_at
			  FROM container_templates WHERE name = ?`

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

func (m *MySQLContainerRepository) touch(ctx context.Context, serial string) error {
	querier := database.GetTx(ctx, m.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE containers SET last_updated = NOW() WHERE serial = ?`, serial)
	if err != nil {
		return apperrors.Wrap(err, "failed to update container last updated")
	}
	return nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}

// NewMySQLContainerRepository creates a new MySQL container repository instance.
func NewMySQLContainerRepository(db *sql.DB) *MySQLContainerRepository {
	return &MySQLContainerRepository{db: db}
}
