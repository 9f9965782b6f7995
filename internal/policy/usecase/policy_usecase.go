// Package usecase implements policy rule management used by administrators
// through the CLI. Rule evaluation lives in the service package; this package
// only creates, replaces, deletes and lists rules.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
	appValidation "github.com/allisson/tokenbox/internal/validation"
)

// SetRuleInput contains the input data for creating or replacing a rule.
type SetRuleInput struct {
	Name   string `json:"name"`
	Scope  string `json:"scope"`
	Action string `json:"action"`
	Active bool   `json:"active"`
}

// UseCase defines the interface for policy rule management operations.
type UseCase interface {
	SetRule(ctx context.Context, input SetRuleInput) (*policyDomain.Rule, error)
	DeleteRule(ctx context.Context, name string) error
	ListRules(ctx context.Context) ([]*policyDomain.Rule, error)
}

// RuleRepository interface defines policy rule repository operations.
type RuleRepository interface {
	Upsert(ctx context.Context, rule *policyDomain.Rule) error
	DeleteByName(ctx context.Context, name string) error
	List(ctx context.Context) ([]*policyDomain.Rule, error)
}

// PolicyUseCase handles policy rule management.
type PolicyUseCase struct {
	ruleRepo RuleRepository
}

// NewPolicyUseCase creates a new PolicyUseCase.
func NewPolicyUseCase(ruleRepo RuleRepository) *PolicyUseCase {
	return &PolicyUseCase{ruleRepo: ruleRepo}
}

func (uc *PolicyUseCase) validateSetRuleInput(input SetRuleInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Scope,
			validation.Required.Error("scope is required"),
			validation.In("admin", "user").Error("scope must be admin or user"),
		),
		validation.Field(&input.Action,
			validation.Required.Error("action is required"),
			appValidation.NotBlank,
		),
	)
	return appValidation.WrapValidationError(err)
}

// SetRule creates a rule or replaces the rule with the same name.
func (uc *PolicyUseCase) SetRule(
	ctx context.Context,
	input SetRuleInput,
) (*policyDomain.Rule, error) {
	if err := uc.validateSetRuleInput(input); err != nil {
		return nil, err
	}

	rule := &policyDomain.Rule{
		ID:     uuid.Must(uuid.NewV7()),
		Name:   strings.TrimSpace(input.Name),
		Scope:  policyDomain.Scope(input.Scope),
		Action: policyDomain.Action(input.Action),
		Active: input.Active,
	}

	if err := uc.ruleRepo.Upsert(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

// DeleteRule removes the rule with the specified name.
func (uc *PolicyUseCase) DeleteRule(ctx context.Context, name string) error {
	return uc.ruleRepo.DeleteByName(ctx, name)
}

// ListRules retrieves all configured rules.
func (uc *PolicyUseCase) ListRules(ctx context.Context) ([]*policyDomain.Rule, error) {
	return uc.ruleRepo.List(ctx)
}
