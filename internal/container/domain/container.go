// Package domain defines the container models: the container aggregate, its
// type enumeration, the per-type token-type lists and the state vocabulary.
package domain

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
)

// Type is the container type, fixed at creation. It determines the serial
// prefix, which token types the container may hold and which template options
// apply.
type Type string

const (
	TypeGeneric    Type = "generic"
	TypeSmartphone Type = "smartphone"
	TypeYubikey    Type = "yubikey"
)

type typeInfo struct {
	serialPrefix string
	description  string
	tokenTypes   []string
	// maxTokens is the device capacity; zero means unlimited.
	maxTokens int
}

var typeRegistry = map[Type]typeInfo{
	TypeGeneric: {
		serialPrefix: "CONT",
		description:  "General purpose container that can hold any type and any number of tokens.",
		tokenTypes:   []string{"daypassword", "hotp", "sms", "totp"},
	},
	TypeSmartphone: {
		serialPrefix: "SMPH",
		description:  "A smartphone that uses an authenticator app.",
		tokenTypes:   []string{"daypassword", "hotp", "sms", "totp"},
	},
	TypeYubikey: {
		serialPrefix: "YUBI",
		description:  "A Yubikey hardware device that can hold HOTP tokens.",
		tokenTypes:   []string{"hotp"},
		maxTokens:    32,
	},
}

// ParseType normalizes and validates a container type name. Input is
// case-insensitive; an empty name and an unknown name are distinct failures.
func ParseType(name string) (Type, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrMissingType
	}
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := typeRegistry[t]; !ok {
		return "", ErrUnsupportedType
	}
	return t, nil
}

// Types returns the known container types in stable order.
func Types() []Type {
	return []Type{TypeGeneric, TypeSmartphone, TypeYubikey}
}

// Description returns the human-readable type description.
func (t Type) Description() string {
	return typeRegistry[t].description
}

// TokenTypes returns the token types a container of this type may hold.
func (t Type) TokenTypes() []string {
	return typeRegistry[t].tokenTypes
}

// TemplateOptions returns the options a template of this type may configure.
// A token_count of zero means the type holds any number of tokens.
func (t Type) TemplateOptions() map[string]any {
	return map[string]any{
		"token_types": t.TokenTypes(),
		"token_count": typeRegistry[t].maxTokens,
	}
}

// NewSerial generates a unique serial for a container of this type: the type
// prefix followed by eight uppercase hex characters derived from a UUIDv7.
func (t Type) NewSerial() string {
	id := uuid.Must(uuid.NewV7())
	return typeRegistry[t].serialPrefix + strings.ToUpper(hex.EncodeToString(id[8:12]))
}

// Container states. The vocabulary is shared by all container types; states
// listed in stateExclusions cannot coexist with their excluded counterparts.
const (
	StateActive   = "active"
	StateDisabled = "disabled"
	StateDamaged  = "damaged"
	StateLost     = "lost"
)

var stateExclusions = map[string][]string{
	StateActive:   {StateDisabled},
	StateDisabled: {StateActive},
	StateDamaged:  {},
	StateLost:     {},
}

// StateTypes returns the full state vocabulary mapped to the states each one
// excludes.
func StateTypes() map[string][]string {
	out := make(map[string][]string, len(stateExclusions))
	for state, excluded := range stateExclusions {
		out[state] = append([]string(nil), excluded...)
	}
	return out
}

// ValidState reports whether the state belongs to the vocabulary.
func ValidState(state string) bool {
	_, ok := stateExclusions[state]
	return ok
}

// Container is the aggregate root: a grouping of tokens with an optional
// single owner and a set of visibility realms.
type Container struct {
	ID     uuid.UUID
	Serial string
	Type   Type
	// Description is free text; empty clears it.
	Description string
	// States is the current state set; empty is valid.
	States []string
	// Info holds arbitrary key/value metadata; keys are independent.
	Info map[string]string
	// Realms the container is visible in.
	Realms []string
	// Owner is the owning user, nil when unassigned.
	Owner *identityDomain.User
	// TokenSerials are the serials of the tokens currently bound.
	TokenSerials []string
	LastSeen     time.Time
	LastUpdated  time.Time
	CreatedAt    time.Time
}

// HasRealm reports whether the container is visible in the named realm.
func (c *Container) HasRealm(name string) bool {
	for _, realm := range c.Realms {
		if realm == name {
			return true
		}
	}
	return false
}

// Template is a stored container template: a named, per-type default
// configuration used when enrolling new containers.
type Template struct {
	ID   uuid.UUID
	Name string
	Type Type
	// Options is the template configuration serialized as JSON.
	Options   string
	Default   bool
	CreatedAt time.Time
}
