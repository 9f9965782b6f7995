package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
)

// mockRuleRepository is a mock implementation of RuleRepository for testing.
type mockRuleRepository struct {
	mock.Mock
}

func (m *mockRuleRepository) ListByScope(
	ctx context.Context,
	scope policyDomain.Scope,
) ([]*policyDomain.Rule, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*policyDomain.Rule), args.Error(1)
}

func activeRule(scope policyDomain.Scope, action policyDomain.Action) *policyDomain.Rule {
	return &policyDomain.Rule{Name: "policy", Scope: scope, Action: action, Active: true}
}

func TestEngine_Decide(t *testing.T) {
	ctx := context.Background()
	admin := policyDomain.Actor{Scope: policyDomain.ScopeAdmin}

	t.Run("NoRulesScopeIsOpen", func(t *testing.T) {
		repo := &mockRuleRepository{}
		repo.On("ListByScope", ctx, policyDomain.ScopeAdmin).
			Return([]*policyDomain.Rule{}, nil).
			Once()

		err := NewEngine(repo).Decide(ctx, admin, policyDomain.ActionContainerCreate)
		assert.NoError(t, err)
	})

	t.Run("MatchingRuleAllows", func(t *testing.T) {
		repo := &mockRuleRepository{}
		repo.On("ListByScope", ctx, policyDomain.ScopeAdmin).
			Return([]*policyDomain.Rule{
				activeRule(policyDomain.ScopeAdmin, policyDomain.ActionContainerCreate),
			}, nil).
			Once()

		err := NewEngine(repo).Decide(ctx, admin, policyDomain.ActionContainerCreate)
		assert.NoError(t, err)
	})

	t.Run("UnrelatedRuleClosesWholeScope", func(t *testing.T) {
		// A single delete rule closes the scope for every other action,
		// including description.
		repo := &mockRuleRepository{}
		repo.On("ListByScope", ctx, policyDomain.ScopeAdmin).
			Return([]*policyDomain.Rule{
				activeRule(policyDomain.ScopeAdmin, policyDomain.ActionContainerDelete),
			}, nil).
			Times(2)

		engine := NewEngine(repo)
		assert.ErrorIs(t,
			engine.Decide(ctx, admin, policyDomain.ActionContainerDescription),
			policyDomain.ErrPolicyDenied)
		assert.NoError(t,
			engine.Decide(ctx, admin, policyDomain.ActionContainerDelete))
	})

	t.Run("ToggleRuleFlipsOpenToClosed", func(t *testing.T) {
		repo := &mockRuleRepository{}
		repo.On("ListByScope", ctx, policyDomain.ScopeUser).
			Return([]*policyDomain.Rule{}, nil).
			Once()
		repo.On("ListByScope", ctx, policyDomain.ScopeUser).
			Return([]*policyDomain.Rule{
				activeRule(policyDomain.ScopeUser, policyDomain.ActionContainerDelete),
			}, nil).
			Once()

		user := policyDomain.Actor{
			Scope: policyDomain.ScopeUser,
			User:  &identityDomain.User{Login: "selfservice", Realm: "realm1", Resolver: "resolver1"},
		}

		engine := NewEngine(repo)
		assert.NoError(t, engine.Decide(ctx, user, policyDomain.ActionContainerCreate))
		assert.ErrorIs(t,
			engine.Decide(ctx, user, policyDomain.ActionContainerCreate),
			policyDomain.ErrPolicyDenied)
	})

	t.Run("InactiveRuleDoesNotPermit", func(t *testing.T) {
		repo := &mockRuleRepository{}
		repo.On("ListByScope", ctx, policyDomain.ScopeAdmin).
			Return([]*policyDomain.Rule{
				{Name: "policy", Scope: policyDomain.ScopeAdmin, Action: policyDomain.ActionContainerCreate, Active: false},
			}, nil).
			Once()

		err := NewEngine(repo).Decide(ctx, admin, policyDomain.ActionContainerCreate)
		assert.ErrorIs(t, err, policyDomain.ErrPolicyDenied)
	})
}

func TestEngine_DecideContainer(t *testing.T) {
	ctx := context.Background()
	selfservice := &identityDomain.User{Login: "selfservice", Realm: "realm1", Resolver: "resolver1"}
	hans := &identityDomain.User{Login: "hans", Realm: "realm1", Resolver: "resolver1"}
	user := policyDomain.Actor{Scope: policyDomain.ScopeUser, User: selfservice}

	repoAllowing := func(action policyDomain.Action) *mockRuleRepository {
		repo := &mockRuleRepository{}
		repo.On("ListByScope", ctx, policyDomain.ScopeUser).
			Return([]*policyDomain.Rule{activeRule(policyDomain.ScopeUser, action)}, nil)
		return repo
	}

	t.Run("UserOwnsContainer", func(t *testing.T) {
		repo := repoAllowing(policyDomain.ActionContainerDelete)
		err := NewEngine(repo).DecideContainer(ctx, user, policyDomain.ActionContainerDelete, selfservice)
		assert.NoError(t, err)
	})

	t.Run("UserDoesNotOwnContainer", func(t *testing.T) {
		repo := repoAllowing(policyDomain.ActionContainerDelete)
		err := NewEngine(repo).DecideContainer(ctx, user, policyDomain.ActionContainerDelete, hans)
		assert.ErrorIs(t, err, policyDomain.ErrPolicyDenied)
	})

	t.Run("OwnerlessContainerPassesOwnership", func(t *testing.T) {
		repo := repoAllowing(policyDomain.ActionContainerAssignUser)
		err := NewEngine(repo).DecideContainer(ctx, user, policyDomain.ActionContainerAssignUser, nil)
		assert.NoError(t, err)
	})

	t.Run("OwnershipDoesNotOverrideMissingPermission", func(t *testing.T) {
		// Owning the container does not help when the action is not named.
		repo := repoAllowing(policyDomain.ActionContainerDelete)
		err := NewEngine(repo).DecideContainer(ctx, user, policyDomain.ActionContainerDescription, selfservice)
		assert.ErrorIs(t, err, policyDomain.ErrPolicyDenied)
	})

	t.Run("AdminHasNoOwnershipCondition", func(t *testing.T) {
		repo := &mockRuleRepository{}
		repo.On("ListByScope", ctx, policyDomain.ScopeAdmin).
			Return([]*policyDomain.Rule{
				activeRule(policyDomain.ScopeAdmin, policyDomain.ActionContainerDelete),
			}, nil).
			Once()

		admin := policyDomain.Actor{Scope: policyDomain.ScopeAdmin}
		err := NewEngine(repo).DecideContainer(ctx, admin, policyDomain.ActionContainerDelete, hans)
		assert.NoError(t, err)
	})
}
