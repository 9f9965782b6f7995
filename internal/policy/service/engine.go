// Package service implements the policy evaluation engine. The engine is a
// pure decision function over a rule snapshot fetched per request: it never
// mutates state and must be consulted before any mutation takes place.
package service

import (
	"context"

	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
)

// RuleRepository supplies the active rule snapshot for a scope.
type RuleRepository interface {
	ListByScope(ctx context.Context, scope policyDomain.Scope) ([]*policyDomain.Rule, error)
}

// Engine decides whether an actor may perform an action.
//
// The decision procedure:
//  1. If no active rule exists for the actor's scope, the scope is open and
//     the action is allowed.
//  2. If rules exist but none names the action, the action is denied. Note
//     the asymmetry: a single unrelated rule closes the whole scope. This is
//     the configured-security default and must not be softened.
//  3. User-scope actors must additionally own the target container; admins
//     are permitted by action name alone.
//
// A denial is reported as ErrPolicyDenied; no partial or advisory outcomes.
type Engine interface {
	// Decide checks scope and action only. Used for operations without a
	// target container (create, list, templates).
	Decide(ctx context.Context, actor policyDomain.Actor, action policyDomain.Action) error

	// DecideContainer checks scope and action plus the user-scope ownership
	// condition against the container's current owner. A container without
	// an owner passes the ownership condition.
	DecideContainer(
		ctx context.Context,
		actor policyDomain.Actor,
		action policyDomain.Action,
		owner *identityDomain.User,
	) error
}

type engine struct {
	ruleRepo RuleRepository
}

// NewEngine creates a policy evaluation engine backed by the rule repository.
func NewEngine(ruleRepo RuleRepository) Engine {
	return &engine{ruleRepo: ruleRepo}
}

// Decide checks whether the action is permitted in the actor's scope.
func (e *engine) Decide(
	ctx context.Context,
	actor policyDomain.Actor,
	action policyDomain.Action,
) error {
	rules, err := e.ruleRepo.ListByScope(ctx, actor.Scope)
	if err != nil {
		return err
	}

	// No rules configured for the scope: open by default.
	if len(rules) == 0 {
		return nil
	}

	for _, rule := range rules {
		if rule.Active && rule.Action == action {
			return nil
		}
	}

	return policyDomain.ErrPolicyDenied
}

// DecideContainer checks the action permission and, for user-scope actors,
// the container ownership condition. Ownership fails only when a different
// owner exists; ownerless containers are not protected by this condition.
func (e *engine) DecideContainer(
	ctx context.Context,
	actor policyDomain.Actor,
	action policyDomain.Action,
	owner *identityDomain.User,
) error {
	if err := e.Decide(ctx, actor, action); err != nil {
		return err
	}

	if actor.Scope == policyDomain.ScopeUser && owner != nil && !owner.Equal(actor.User) {
		return policyDomain.ErrPolicyDenied
	}

	return nil
}
