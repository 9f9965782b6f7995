package domain

import (
	"github.com/allisson/tokenbox/internal/errors"
)

// Policy error definitions.
var (
	// ErrPolicyDenied indicates the evaluation engine denied the action.
	// Carries API code 303.
	ErrPolicyDenied = errors.WithCode(
		errors.Wrap(errors.ErrForbidden, "action not allowed by policy"),
		303,
	)

	// ErrRuleNotFound indicates a rule with the specified name was not found.
	ErrRuleNotFound = errors.Wrap(errors.ErrNotFound, "policy rule not found")

	// ErrInvalidScope indicates an unknown policy scope.
	ErrInvalidScope = errors.Wrap(errors.ErrInvalidInput, "invalid policy scope")
)
