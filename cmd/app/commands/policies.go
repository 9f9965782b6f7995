package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	policyUseCase "github.com/allisson/tokenbox/internal/policy/usecase"
)

// SetPolicyInput contains the parameters for rule creation or update.
type SetPolicyInput struct {
	Name   string
	Scope  string
	Action string
	Active bool
}

// RunSetPolicy creates or updates a policy rule.
//
// Requirements: Database must be migrated and accessible.
func RunSetPolicy(
	ctx context.Context,
	useCase policyUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	input SetPolicyInput,
) error {
	logger.Info("setting policy rule",
		slog.String("name", input.Name),
		slog.String("scope", input.Scope),
		slog.String("action", input.Action),
	)

	rule, err := useCase.SetRule(ctx, policyUseCase.SetRuleInput{
		Name:   input.Name,
		Scope:  input.Scope,
		Action: input.Action,
		Active: input.Active,
	})
	if err != nil {
		return fmt.Errorf("failed to set policy rule: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "Policy rule saved!")
	_, _ = fmt.Fprintf(writer, "Name: %s\n", rule.Name)
	_, _ = fmt.Fprintf(writer, "Scope: %s\n", rule.Scope)
	_, _ = fmt.Fprintf(writer, "Action: %s\n", rule.Action)
	_, _ = fmt.Fprintf(writer, "Active: %t\n", rule.Active)

	return nil
}

// RunDeletePolicy deletes a policy rule by name.
func RunDeletePolicy(
	ctx context.Context,
	useCase policyUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
) error {
	logger.Info("deleting policy rule", slog.String("name", name))

	if err := useCase.DeleteRule(ctx, name); err != nil {
		return fmt.Errorf("failed to delete policy rule: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Policy rule %q deleted\n", name)
	return nil
}

// RunListPolicies lists all configured policy rules.
func RunListPolicies(
	ctx context.Context,
	useCase policyUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
) error {
	rules, err := useCase.ListRules(ctx)
	if err != nil {
		return fmt.Errorf("failed to list policy rules: %w", err)
	}

	if len(rules) == 0 {
		_, _ = fmt.Fprintln(writer, "No policy rules configured (all scopes are open)")
		return nil
	}

	for _, rule := range rules {
		_, _ = fmt.Fprintf(writer, "%s\tscope=%s\taction=%s\tactive=%t\n",
			rule.Name, rule.Scope, rule.Action, rule.Active)
	}

	return nil
}
