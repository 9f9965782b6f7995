package usecase

import (
	"context"
	"time"

	containerDomain "github.com/allisson/tokenbox/internal/container/domain"
	"github.com/allisson/tokenbox/internal/metrics"
	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
)

// containerUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type containerUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewContainerUseCaseWithMetrics wraps a container UseCase with metrics recording.
func NewContainerUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &containerUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *containerUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordOperation(ctx, "container", operation, status)
	c.metrics.RecordDuration(ctx, "container", operation, time.Since(start), status)
}

func (c *containerUseCaseWithMetrics) Create(
	ctx context.Context,
	actor policyDomain.Actor,
	input CreateInput,
) (*containerDomain.Container, error) {
	start := time.Now()
	container, err := c.next.Create(ctx, actor, input)
	c.record(ctx, "container_create", start, err)
	return container, err
}

func (c *containerUseCaseWithMetrics) Delete(
	ctx context.Context,
	actor policyDomain.Actor,
	serial string,
) error {
	start := time.Now()
	err := c.next.Delete(ctx, actor, serial)
	c.record(ctx, "container_delete", start, err)
	return err
}

func (c *containerUseCaseWithMetrics) SetDescription(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, description string,
) error {
	start := time.Now()
	err := c.next.SetDescription(ctx, actor, serial, description)
	c.record(ctx, "container_description", start, err)
	return err
}

func (c *containerUseCaseWithMetrics) SetStates(
	ctx context.Context,
	actor policyDomain.Actor,
	serial string,
	states []string,
) (map[string]bool, error) {
	start := time.Now()
	result, err := c.next.SetStates(ctx, actor, serial, states)
	c.record(ctx, "container_state", start, err)
	return result, err
}

func (c *containerUseCaseWithMetrics) SetInfo(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, key, value string,
) error {
	start := time.Now()
	err := c.next.SetInfo(ctx, actor, serial, key, value)
	c.record(ctx, "container_info", start, err)
	return err
}

func (c *containerUseCaseWithMetrics) UpdateLastSeen(ctx context.Context, serial string) error {
	start := time.Now()
	err := c.next.UpdateLastSeen(ctx, serial)
	c.record(ctx, "container_lastseen", start, err)
	return err
}

func (c *containerUseCaseWithMetrics) Get(
	ctx context.Context,
	actor policyDomain.Actor,
	serial string,
) (*containerDomain.Container, error) {
	start := time.Now()
	container, err := c.next.Get(ctx, actor, serial)
	c.record(ctx, "container_get", start, err)
	return container, err
}

func (c *containerUseCaseWithMetrics) List(
	ctx context.Context,
	actor policyDomain.Actor,
	input ListInput,
) (*ListResult, error) {
	start := time.Now()
	result, err := c.next.List(ctx, actor, input)
	c.record(ctx, "container_list", start, err)
	return result, err
}

func (c *containerUseCaseWithMetrics) StateTypes(ctx context.Context) map[string][]string {
	return c.next.StateTypes(ctx)
}

func (c *containerUseCaseWithMetrics) Types(ctx context.Context) map[containerDomain.Type]TypeInfo {
	return c.next.Types(ctx)
}

func (c *containerUseCaseWithMetrics) AssignUser(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, login, realm string,
) (bool, error) {
	start := time.Now()
	assigned, err := c.next.AssignUser(ctx, actor, serial, login, realm)
	c.record(ctx, "container_assign_user", start, err)
	return assigned, err
}

func (c *containerUseCaseWithMetrics) UnassignUser(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, login, realm string,
) (bool, error) {
	start := time.Now()
	removed, err := c.next.UnassignUser(ctx, actor, serial, login, realm)
	c.record(ctx, "container_unassign_user", start, err)
	return removed, err
}

func (c *containerUseCaseWithMetrics) AddTokens(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, tokenSerials string,
) (map[string]bool, error) {
	start := time.Now()
	result, err := c.next.AddTokens(ctx, actor, serial, tokenSerials)
	c.record(ctx, "container_add_token", start, err)
	return result, err
}

func (c *containerUseCaseWithMetrics) RemoveTokens(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, tokenSerials string,
) (map[string]bool, error) {
	start := time.Now()
	result, err := c.next.RemoveTokens(ctx, actor, serial, tokenSerials)
	c.record(ctx, "container_remove_token", start, err)
	return result, err
}

func (c *containerUseCaseWithMetrics) SetRealms(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, realmNames string,
) (*SetRealmsResult, error) {
	start := time.Now()
	result, err := c.next.SetRealms(ctx, actor, serial, realmNames)
	c.record(ctx, "container_realms", start, err)
	return result, err
}

func (c *containerUseCaseWithMetrics) CreateTemplate(
	ctx context.Context,
	actor policyDomain.Actor,
	typeName, name, options string,
) (*containerDomain.Template, error) {
	start := time.Now()
	template, err := c.next.CreateTemplate(ctx, actor, typeName, name, options)
	c.record(ctx, "container_template_create", start, err)
	return template, err
}

func (c *containerUseCaseWithMetrics) TemplateOptions(
	ctx context.Context,
	typeName string,
) (map[string]any, error) {
	return c.next.TemplateOptions(ctx, typeName)
}
