// Package domain defines the policy models used for authorization decisions.
// Rules are scoped to a role class (admin or user) and name a single action.
// A scope with no rules is open: every action is allowed. As soon as one rule
// exists for a scope, the scope is closed and every action must be explicitly
// permitted.
package domain

import (
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
)

// Scope is the acting role class used to select which rules apply.
type Scope string

const (
	// ScopeAdmin selects rules constraining administrators.
	ScopeAdmin Scope = "admin"

	// ScopeUser selects rules constraining self-service end-users.
	ScopeUser Scope = "user"
)

// Valid reports whether the scope is one of the known role classes.
func (s Scope) Valid() bool {
	return s == ScopeAdmin || s == ScopeUser
}

// Action is a named operation subject to policy control.
type Action string

const (
	ActionContainerCreate       Action = "container_create"
	ActionContainerDelete       Action = "container_delete"
	ActionContainerDescription  Action = "container_description"
	ActionContainerState        Action = "container_state"
	ActionContainerInfo         Action = "container_info"
	ActionContainerAddToken     Action = "container_add_token"
	ActionContainerRemoveToken  Action = "container_remove_token"
	ActionContainerAssignUser   Action = "container_assign_user"
	ActionContainerUnassignUser Action = "container_unassign_user"
	ActionContainerRealms       Action = "container_realms"
	ActionContainerList         Action = "container_list"
	ActionContainerTemplate     Action = "container_template_create"
)

// Rule is a configured policy rule. Rules are read-only to the evaluation
// engine; they are managed by administrators through the policy use case.
type Rule struct {
	ID uuid.UUID
	// Name is the unique rule identifier used for management.
	Name string
	// Scope selects which role class the rule constrains.
	Scope Scope
	// Action is the operation the rule permits within its scope.
	Action Action
	// Active rules participate in decisions; inactive rules are ignored.
	Active    bool
	CreatedAt time.Time
}

// Actor is the authenticated principal a decision is made for. Admins carry
// a nil User; user-scope actors carry their resolved identity.
type Actor struct {
	Scope Scope
	User  *identityDomain.User
}

// IsAdmin reports whether the actor acts under the admin scope.
func (a Actor) IsAdmin() bool {
	return a.Scope == ScopeAdmin
}
