package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	containerDomain "github.com/allisson/tokenbox/internal/container/domain"
	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
)

func newMockDB(t *testing.T) (*PostgreSQLContainerRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgreSQLContainerRepository(db), mock
}

func TestPostgreSQLContainerRepository_GetBySerial(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockDB(t)

		id := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		mock.ExpectQuery(`SELECT id, serial, type, description, last_seen, last_updated, created_at`).
			WithArgs("SMPH00011234").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "serial", "type", "description", "last_seen", "last_updated", "created_at"}).
				AddRow(id, "SMPH00011234", "smartphone", "my phone", now, now, now))
		mock.ExpectQuery(`SELECT state FROM container_states`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow("active"))
		mock.ExpectQuery(`SELECT realm_name FROM container_realms`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"realm_name"}).AddRow("realm1"))
		mock.ExpectQuery(`SELECT token_serial FROM container_tokens`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"token_serial"}).AddRow("TOTP0001"))
		mock.ExpectQuery(`SELECT key, value FROM container_info`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("color", "blue"))
		mock.ExpectQuery(`SELECT user_login, user_realm, user_resolver FROM container_owners`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"user_login", "user_realm", "user_resolver"}).
				AddRow("hans", "realm1", "resolver1"))

		container, err := repo.GetBySerial(ctx, "SMPH00011234")
		require.NoError(t, err)
		assert.Equal(t, containerDomain.TypeSmartphone, container.Type)
		assert.Equal(t, []string{"active"}, container.States)
		assert.Equal(t, []string{"realm1"}, container.Realms)
		assert.Equal(t, []string{"TOTP0001"}, container.TokenSerials)
		assert.Equal(t, map[string]string{"color": "blue"}, container.Info)
		require.NotNil(t, container.Owner)
		assert.Equal(t, "hans", container.Owner.Login)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT id, serial, type, description, last_seen, last_updated, created_at`).
			WithArgs("WRONGSERIAL").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "serial", "type", "description", "last_seen", "last_updated", "created_at"}))

		_, err := repo.GetBySerial(ctx, "WRONGSERIAL")
		assert.ErrorIs(t, err, containerDomain.ErrContainerNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLContainerRepository_SetOwner(t *testing.T) {
	ctx := context.Background()
	container := &containerDomain.Container{ID: uuid.Must(uuid.NewV7()), Serial: "CONT00011234"}
	user := &identityDomain.User{Login: "hans", Realm: "realm1", Resolver: "resolver1"}

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec(`INSERT INTO container_owners`).
			WithArgs(container.ID, user.Login, user.Realm, user.Resolver).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE containers SET last_updated`).
			WithArgs(container.Serial).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetOwner(ctx, container, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyAssigned", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec(`INSERT INTO container_owners`).
			WithArgs(container.ID, user.Login, user.Realm, user.Resolver).
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "container_owners_container_id_key"`))

		err := repo.SetOwner(ctx, container, user)
		assert.ErrorIs(t, err, containerDomain.ErrAlreadyAssigned)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLContainerRepository_AddToken(t *testing.T) {
	ctx := context.Background()
	container := &containerDomain.Container{ID: uuid.Must(uuid.NewV7()), Serial: "CONT00011234"}

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec(`INSERT INTO container_tokens`).
			WithArgs(container.ID, "TOTP0001").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE containers SET last_updated`).
			WithArgs(container.Serial).
			WillReturnResult(sqlmock.NewResult(0, 1))

		added, err := repo.AddToken(ctx, container, "TOTP0001")
		require.NoError(t, err)
		assert.True(t, added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BoundElsewhere", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec(`INSERT INTO container_tokens`).
			WithArgs(container.ID, "TOTP0001").
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "container_tokens_token_serial_key"`))

		added, err := repo.AddToken(ctx, container, "TOTP0001")
		require.NoError(t, err)
		assert.False(t, added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLContainerRepository_RemoveToken(t *testing.T) {
	ctx := context.Background()
	container := &containerDomain.Container{ID: uuid.Must(uuid.NewV7()), Serial: "CONT00011234"}

	t.Run("NotBound", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec(`DELETE FROM container_tokens`).
			WithArgs(container.ID, "TOTP0001").
			WillReturnResult(sqlmock.NewResult(0, 0))

		removed, err := repo.RemoveToken(ctx, container, "TOTP0001")
		require.NoError(t, err)
		assert.False(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLContainerRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec(`DELETE FROM containers WHERE serial`).
			WithArgs("WRONGSERIAL").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(ctx, "WRONGSERIAL")
		assert.ErrorIs(t, err, containerDomain.ErrContainerNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLContainerRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("FilterByType", func(t *testing.T) {
		repo, mock := newMockDB(t)

		id := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM containers c WHERE c.type`).
			WithArgs(containerDomain.TypeGeneric).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT c.id, c.serial, c.type`).
			WithArgs(containerDomain.TypeGeneric, 15, 0).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "serial", "type", "description", "last_seen", "last_updated", "created_at"}).
				AddRow(id, "CONT00011234", "generic", "", now, now, now))
		mock.ExpectQuery(`SELECT state FROM container_states`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"state"}))
		mock.ExpectQuery(`SELECT realm_name FROM container_realms`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"realm_name"}))
		mock.ExpectQuery(`SELECT token_serial FROM container_tokens`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"token_serial"}))
		mock.ExpectQuery(`SELECT key, value FROM container_info`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))
		mock.ExpectQuery(`SELECT user_login, user_realm, user_resolver FROM container_owners`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"user_login", "user_realm", "user_resolver"}))

		containers, count, err := repo.List(ctx, Filter{Type: containerDomain.TypeGeneric}, 15, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		require.Len(t, containers, 1)
		assert.Equal(t, "CONT00011234", containers[0].Serial)
		assert.Nil(t, containers[0].Owner)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
