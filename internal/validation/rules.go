// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/tokenbox/internal/errors"
)

var (
	// realmNameRegex matches realm names: lowercase alphanumerics plus ".", "-", "_".
	realmNameRegex = regexp.MustCompile(`^[a-z0-9._-]+$`)

	// serialRegex matches container and token serials: uppercase alphanumerics.
	serialRegex = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// RealmName validates realm name format.
var RealmName = validation.NewStringRuleWithError(
	func(s string) bool {
		return realmNameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_realm_name",
		"must contain only lowercase letters, digits, '.', '-' and '_'",
	),
)

// Serial validates a single container or token serial.
var Serial = validation.NewStringRuleWithError(
	func(s string) bool {
		return serialRegex.MatchString(s)
	},
	validation.NewError("validation_serial", "must contain only uppercase letters and digits"),
)

// SerialList validates a comma-delimited list of serials. Surrounding
// whitespace around each entry is tolerated; blank entries are not.
var SerialList = validation.NewStringRuleWithError(
	func(s string) bool {
		for _, item := range strings.Split(s, ",") {
			if !serialRegex.MatchString(strings.TrimSpace(item)) {
				return false
			}
		}
		return true
	},
	validation.NewError(
		"validation_serial_list",
		"must be a comma-separated list of serials",
	),
)
