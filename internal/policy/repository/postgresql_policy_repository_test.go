package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
)

func TestPostgreSQLPolicyRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Upsert", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		rule := &policyDomain.Rule{
			ID:        uuid.Must(uuid.NewV7()),
			Name:      "admin-delete-only",
			Scope:     policyDomain.ScopeAdmin,
			Action:    policyDomain.ActionContainerDelete,
			Active:    true,
			CreatedAt: time.Now().UTC(),
		}

		mock.ExpectExec(`INSERT INTO policies`).
			WithArgs(rule.ID, rule.Name, rule.Scope, rule.Action, rule.Active, rule.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLPolicyRepository(db)
		assert.NoError(t, repo.Upsert(ctx, rule))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteByName", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM policies WHERE name`).
			WithArgs("admin-delete-only").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLPolicyRepository(db)
		assert.NoError(t, repo.DeleteByName(ctx, "admin-delete-only"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteByNameNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM policies WHERE name`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPostgreSQLPolicyRepository(db)
		assert.ErrorIs(t, repo.DeleteByName(ctx, "missing"), policyDomain.ErrRuleNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListByScope", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		id := uuid.Must(uuid.NewV7())
		createdAt := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"id", "name", "scope", "action", "active", "created_at"}).
			AddRow(id, "user-delete-only", "user", "container_delete", true, createdAt)

		mock.ExpectQuery(`SELECT id, name, scope, action, active, created_at`).
			WithArgs(policyDomain.ScopeUser).
			WillReturnRows(rows)

		repo := NewPostgreSQLPolicyRepository(db)
		rules, err := repo.ListByScope(ctx, policyDomain.ScopeUser)
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, "user-delete-only", rules[0].Name)
		assert.Equal(t, policyDomain.ScopeUser, rules[0].Scope)
		assert.Equal(t, policyDomain.ActionContainerDelete, rules[0].Action)
		assert.True(t, rules[0].Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListByScopeEmpty", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "name", "scope", "action", "active", "created_at"})
		mock.ExpectQuery(`SELECT id, name, scope, action, active, created_at`).
			WithArgs(policyDomain.ScopeAdmin).
			WillReturnRows(rows)

		repo := NewPostgreSQLPolicyRepository(db)
		rules, err := repo.ListByScope(ctx, policyDomain.ScopeAdmin)
		require.NoError(t, err)
		assert.Empty(t, rules)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
