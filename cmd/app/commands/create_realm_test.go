package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	realmDomain "github.com/allisson/tokenbox/internal/realm/domain"
)

type mockRealmCreator struct {
	mock.Mock
}

func (m *mockRealmCreator) Create(ctx context.Context, realm *realmDomain.Realm) error {
	return m.Called(ctx, realm).Error(0)
}

func (m *mockRealmCreator) GetByName(ctx context.Context, name string) (*realmDomain.Realm, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*realmDomain.Realm), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunCreateRealm(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		realms := &mockRealmCreator{}
		realms.On("GetByName", mock.Anything, "realm1").
			Return(nil, realmDomain.ErrRealmNotFound).Once()
		realms.On("Create", mock.Anything, mock.MatchedBy(func(realm *realmDomain.Realm) bool {
			return realm.Name == "realm1" && realm.IsDefault
		})).Return(nil).Once()

		var out bytes.Buffer
		err := RunCreateRealm(context.Background(), realms, testLogger(), &out, " Realm1 ", true)

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Realm created successfully")
		assert.Contains(t, out.String(), "Name: realm1")
		realms.AssertExpectations(t)
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		realms := &mockRealmCreator{}
		realms.On("GetByName", mock.Anything, "realm1").
			Return(&realmDomain.Realm{Name: "realm1"}, nil).Once()

		var out bytes.Buffer
		err := RunCreateRealm(context.Background(), realms, testLogger(), &out, "realm1", false)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
		realms.AssertExpectations(t)
	})

	t.Run("EmptyName", func(t *testing.T) {
		realms := &mockRealmCreator{}

		var out bytes.Buffer
		err := RunCreateRealm(context.Background(), realms, testLogger(), &out, "  ", false)

		require.Error(t, err)
		realms.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
