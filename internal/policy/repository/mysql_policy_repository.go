package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/tokenbox/internal/database"
	apperrors "github.com/allisson/tokenbox/internal/errors"
	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
)

// MySQLPolicyRepository implements policy rule persistence for MySQL databases.
type MySQLPolicyRepository struct {
	db *sql.DB
}

// Upsert creates a rule or replaces the rule with the same name.
func (m *MySQLPolicyRepository) Upsert(ctx context.Context, rule *policyDomain.Rule) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO policies (id, name, scope, action, active, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  scope = VALUES(scope), action = VALUES(action), active = VALUES(active)`

	_, err := querier.ExecContext(
		ctx,
		query,
		rule.ID.String(),
		rule.Name,
		rule.Scope,
		rule.Action,
		rule.Active,
		rule.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert policy rule")
	}
	return nil
}

// DeleteByName removes the rule with the specified name.
func (m *MySQLPolicyRepository) DeleteByName(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM policies WHERE name = ?`

	result, err := querier.ExecContext(ctx, query, name)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete policy rule")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return policyDomain.ErrRuleNotFound
	}
	return nil
}

// ListByScope retrieves the active rules for a scope.
func (m *MySQLPolicyRepository) ListByScope(
	ctx context.Context,
	scope policyDomain.Scope,
) ([]*policyDomain.Rule, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, scope, action, active, created_at
			  FROM policies WHERE scope = ? AND active ORDER BY name`

	rows, err := querier.QueryContext(ctx, query, scope)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list policy rules by scope")
	}
	defer rows.Close()

	return scanRules(rows)
}

// List retrieves all rules ordered by name.
func (m *MySQLPolicyRepository) List(ctx context.Context) ([]*policyDomain.Rule, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, scope, action, active, created_at FROM policies ORDER BY name`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list policy rules")
	}
	defer rows.Close()

	return scanRules(rows)
}

// NewMySQLPolicyRepository creates a new MySQL policy repository instance.
func NewMySQLPolicyRepository(db *sql.DB) *MySQLPolicyRepository {
	return &MySQLPolicyRepository{db: db}
}
