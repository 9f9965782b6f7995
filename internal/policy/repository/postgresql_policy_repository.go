// Package repository implements policy rule persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/tokenbox/internal/database"
	apperrors "github.com/allisson/tokenbox/internal/errors"
	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
)

// PostgreSQLPolicyRepository implements policy rule persistence for PostgreSQL databases.
type PostgreSQLPolicyRepository struct {
	db *sql.DB
}

// Upsert creates a rule or replaces the rule with the same name.
func (p *PostgreSQLPolicyRepository) Upsert(ctx context.Context, rule *policyDomain.Rule) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO policies (id, name, scope, action, active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (name) DO UPDATE
			  SET scope = EXCLUDED.scope, action = EXCLUDED.action, active = EXCLUDED.active`

	_, err := querier.ExecContext(
		ctx,
		query,
		rule.ID,
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
func (p *PostgreSQLPolicyRepository) DeleteByName(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM policies WHERE name = $1`

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
func (p *PostgreSQLPolicyRepository) ListByScope(
	ctx context.Context,
	scope policyDomain.Scope,
) ([]*policyDomain.Rule, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, scope, action, active, created_at
			  FROM policies WHERE scope = $1 AND active ORDER BY name`

	rows, err := querier.QueryContext(ctx, query, scope)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list policy rules by scope")
	}
	defer rows.Close()

	return scanRules(rows)
}

// List retrieves all rules ordered by name.
func (p *PostgreSQLPolicyRepository) List(ctx context.Context) ([]*policyDomain.Rule, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, scope, action, active, created_at FROM policies ORDER BY name`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list policy rules")
	}
	defer rows.Close()

	return scanRules(rows)
}

func scanRules(rows *sql.Rows) ([]*policyDomain.Rule, error) {
	var rules []*policyDomain.Rule
	for rows.Next() {
		var rule policyDomain.Rule
		err := rows.Scan(
			&rule.ID,
			&rule.Name,
			&rule.Scope,
			&rule.Action,
			&rule.Active,
			&rule.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan policy rule")
		}
		rules = append(rules, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate policy rules")
	}
	return rules, nil
}

// NewPostgreSQLPolicyRepository creates a new PostgreSQL policy repository instance.
func NewPostgreSQLPolicyRepository(db *sql.DB) *PostgreSQLPolicyRepository {
	return &PostgreSQLPolicyRepository{db: db}
}
