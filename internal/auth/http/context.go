// Package http provides the authentication endpoint and the middleware that
// resolves bearer tokens to acting principals.
package http

import (
	"context"

	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
)

// actorKey is a context key type for storing the authenticated actor.
type actorKey struct{}

// WithActor stores the authenticated actor in the context.
func WithActor(ctx context.Context, actor policyDomain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor retrieves the authenticated actor from the context. Returns
// (actor, true) when present.
func GetActor(ctx context.Context) (policyDomain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(policyDomain.Actor)
	return actor, ok
}
