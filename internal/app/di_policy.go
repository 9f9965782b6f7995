package app

import (
	"context"
	"fmt"

	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
	policyRepository "github.com/allisson/tokenbox/internal/policy/repository"
	policyService "github.com/allisson/tokenbox/internal/policy/service"
	policyUseCase "github.com/allisson/tokenbox/internal/policy/usecase"
)

// ruleRepository combines the rule persistence surfaces needed by the
// evaluation engine and the management use case.
type ruleRepository interface {
	Upsert(ctx context.Context, rule *policyDomain.Rule) error
	DeleteByName(ctx context.Context, name string) error
	List(ctx context.Context) ([]*policyDomain.Rule, error)
	ListByScope(ctx context.Context, scope policyDomain.Scope) ([]*policyDomain.Rule, error)
}

// RuleRepository returns the policy rule repository instance.
func (c *Container) RuleRepository() (ruleRepository, error) {
	c.ruleRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["ruleRepo"] = err
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.ruleRepo = policyRepository.NewMySQLPolicyRepository(db)
		case "postgres":
			c.ruleRepo = policyRepository.NewPostgreSQLPolicyRepository(db)
		default:
			c.initErrors["ruleRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["ruleRepo"]; exists {
		return nil, err
	}
	return c.ruleRepo, nil
}

// PolicyEngine returns the policy decision engine instance.
func (c *Container) PolicyEngine() (policyService.Engine, error) {
	c.policyEngineInit.Do(func() {
		ruleRepository, err := c.RuleRepository()
		if err != nil {
			c.initErrors["policyEngine"] = err
			return
		}

		c.policyEngine = policyService.NewEngine(ruleRepository)
	})
	if err, exists := c.initErrors["policyEngine"]; exists {
		return nil, err
	}
	return c.policyEngine, nil
}

// PolicyUseCase returns the policy management use case instance.
func (c *Container) PolicyUseCase() (policyUseCase.UseCase, error) {
	c.policyUCInit.Do(func() {
		ruleRepository, err := c.RuleRepository()
		if err != nil {
			c.initErrors["policyUC"] = err
			return
		}

		c.policyUC = policyUseCase.NewPolicyUseCase(ruleRepository)
	})
	if err, exists := c.initErrors["policyUC"]; exists {
		return nil, err
	}
	return c.policyUC, nil
}
