// Package dto provides data transfer objects for the container HTTP surface.
package dto

import (
	validation "github.com/jellydator/validation"
)

// CreateContainerRequest contains the parameters for container creation.
type CreateContainerRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	User        string `json:"user"`
	Realm       string `json:"realm"`
}

// SetDescriptionRequest carries the new description. The pointer
// distinguishes an absent field from an explicit empty string: absent is a
// missing parameter, empty clears the description.
type SetDescriptionRequest struct {
	Description *string `json:"description"`
}

// SetStatesRequest carries the replacement state list as a comma-separated
// string.
type SetStatesRequest struct {
	States string `json:"states"`
}

// Validate checks if the set states request is valid.
func (r *SetStatesRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.States, validation.Required.Error("states is required")),
	)
}

// SetInfoRequest carries the info value; the key comes from the URL. The
// pointer distinguishes an absent value from an empty one.
type SetInfoRequest struct {
	Value *string `json:"value"`
}

// TokenSerialsRequest carries a comma-separated token serial list for batch
// add/remove.
type TokenSerialsRequest struct {
	Serial string `json:"serial"`
}

// Validate checks if the token serials request is valid.
func (r *TokenSerialsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Serial, validation.Required.Error("serial is required")),
	)
}

// UserAssignmentRequest names the user for assign/unassign.
type UserAssignmentRequest struct {
	User  string `json:"user"`
	Realm string `json:"realm"`
}

// Validate checks if the user assignment request is valid.
func (r *UserAssignmentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.User, validation.Required.Error("user is required")),
	)
}

// SetRealmsRequest carries the replacement realm list as a comma-separated
// string. The pointer distinguishes an absent field from an explicit empty
// string, which clears the realm set.
type SetRealmsRequest struct {
	Realms *string `json:"realms"`
}

// CreateTemplateRequest carries the template options as a JSON document.
type CreateTemplateRequest struct {
	Options string `json:"template_options"`
}
