// Package usecase implements the container business logic: registry
// operations, token and user membership, and realm scoping. Every mutation
// consults the policy engine first and runs inside a transaction.
package usecase

import (
	"context"

	containerDomain "github.com/allisson/tokenbox/internal/container/domain"
	"github.com/allisson/tokenbox/internal/container/repository"
	"github.com/allisson/tokenbox/internal/httputil"
	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
	realmDomain "github.com/allisson/tokenbox/internal/realm/domain"
	tokenDomain "github.com/allisson/tokenbox/internal/token/domain"
)

// CreateInput contains the input data for container creation.
type CreateInput struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	// Login and Realm optionally name an initial owner. Self-service actors
	// always become the owner regardless of these fields.
	Login string `json:"user"`
	Realm string `json:"realm"`
}

// ListInput contains the listing filters and pagination.
type ListInput struct {
	Type            string
	TokenSerial     string
	SerialSubstring string
	Page            httputil.Page
}

// ListResult is one page of containers plus the pagination cursors.
type ListResult struct {
	Containers []*containerDomain.Container
	Cursors    httputil.Cursors
}

// SetRealmsResult reports the outcome of a realm replacement: one boolean per
// supplied realm name plus whether any previously-assigned realm was removed.
type SetRealmsResult struct {
	Realms  map[string]bool
	Deleted bool
}

// TypeInfo describes a container type for the type listing.
type TypeInfo struct {
	Description string   `json:"description"`
	TokenTypes  []string `json:"token_types"`
}

// UseCase defines the interface for container business logic operations.
type UseCase interface {
	Create(ctx context.Context, actor policyDomain.Actor, input CreateInput) (*containerDomain.Container, error)
	Delete(ctx context.Context, actor policyDomain.Actor, serial string) error
	SetDescription(ctx context.Context, actor policyDomain.Actor, serial, description string) error
	SetStates(ctx context.Context, actor policyDomain.Actor, serial string, states []string) (map[string]bool, error)
	SetInfo(ctx context.Context, actor policyDomain.Actor, serial, key, value string) error
	UpdateLastSeen(ctx context.Context, serial string) error
	Get(ctx context.Context, actor policyDomain.Actor, serial string) (*containerDomain.Container, error)
	List(ctx context.Context, actor policyDomain.Actor, input ListInput) (*ListResult, error)
	StateTypes(ctx context.Context) map[string][]string
	Types(ctx context.Context) map[containerDomain.Type]TypeInfo

	AssignUser(ctx context.Context, actor policyDomain.Actor, serial, login, realm string) (bool, error)
	UnassignUser(ctx context.Context, actor policyDomain.Actor, serial, login, realm string) (bool, error)
	AddTokens(ctx context.Context, actor policyDomain.Actor, serial, tokenSerials string) (map[string]bool, error)
	RemoveTokens(ctx context.Context, actor policyDomain.Actor, serial, tokenSerials string) (map[string]bool, error)

	SetRealms(ctx context.Context, actor policyDomain.Actor, serial, realmNames string) (*SetRealmsResult, error)

	CreateTemplate(ctx context.Context, actor policyDomain.Actor, typeName, name, options string) (*containerDomain.Template, error)
	TemplateOptions(ctx context.Context, typeName string) (map[string]any, error)
}

// ContainerRepository interface defines container repository operations.
type ContainerRepository interface {
	Create(ctx context.Context, container *containerDomain.Container) error
	GetBySerial(ctx context.Context, serial string) (*containerDomain.Container, error)
	List(ctx context.Context, filter repository.Filter, limit, offset int) ([]*containerDomain.Container, int, error)
	Delete(ctx context.Context, serial string) error
	SetDescription(ctx context.Context, serial, description string) error
	ReplaceStates(ctx context.Context, container *containerDomain.Container, states []string) error
	SetInfo(ctx context.Context, container *containerDomain.Container, key, value string) error
	UpdateLastSeen(ctx context.Context, serial string) error
	SetOwner(ctx context.Context, container *containerDomain.Container, user *identityDomain.User) error
	RemoveOwner(ctx context.Context, container *containerDomain.Container, user *identityDomain.User) (bool, error)
	AddToken(ctx context.Context, container *containerDomain.Container, tokenSerial string) (bool, error)
	RemoveToken(ctx context.Context, container *containerDomain.Container, tokenSerial string) (bool, error)
	ReplaceRealms(ctx context.Context, container *containerDomain.Container, realms []string) error
	CreateTemplate(ctx context.Context, template *containerDomain.Template) error
	GetTemplateByName(ctx context.Context, name string) (*containerDomain.Template, error)
}

// TokenRepository interface defines the token catalog operations needed here.
type TokenRepository interface {
	GetBySerial(ctx context.Context, serial string) (*tokenDomain.Token, error)
}

// RealmRepository interface defines the realm catalog operations needed here.
type RealmRepository interface {
	GetByName(ctx context.Context, name string) (*realmDomain.Realm, error)
}

// Resolver resolves login/realm pairs to identities.
type Resolver interface {
	Resolve(ctx context.Context, login, realm string) (*identityDomain.User, error)
	DefaultRealm(ctx context.Context) (string, error)
}

// PolicyEngine decides whether the actor may perform an action.
type PolicyEngine interface {
	Decide(ctx context.Context, actor policyDomain.Actor, action policyDomain.Action) error
	DecideContainer(ctx context.Context, actor policyDomain.Actor, action policyDomain.Action, owner *identityDomain.User) error
}
