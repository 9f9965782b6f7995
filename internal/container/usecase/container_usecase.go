package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	containerDomain "github.com/allisson/tokenbox/internal/container/domain"
	"github.com/allisson/tokenbox/internal/container/repository"
	"github.com/allisson/tokenbox/internal/database"
	"github.com/allisson/tokenbox/internal/httputil"
	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
	appValidation "github.com/allisson/tokenbox/internal/validation"
)

// ContainerUseCase handles container-related business logic.
type ContainerUseCase struct {
	txManager     database.TxManager
	containerRepo ContainerRepository
	tokenRepo     TokenRepository
	realmRepo     RealmRepository
	resolver      Resolver
	engine        PolicyEngine
}

// NewContainerUseCase creates a new ContainerUseCase.
func NewContainerUseCase(
	txManager database.TxManager,
	containerRepo ContainerRepository,
	tokenRepo TokenRepository,
	realmRepo RealmRepository,
	resolver Resolver,
	engine PolicyEngine,
) *ContainerUseCase {
	return &ContainerUseCase{
		txManager:     txManager,
		containerRepo: containerRepo,
		tokenRepo:     tokenRepo,
		realmRepo:     realmRepo,
		resolver:      resolver,
		engine:        engine,
	}
}

// Create registers a new container. Self-service actors become the owner of
// the container they create; admins may name an initial owner via user/realm.
func (uc *ContainerUseCase) Create(
	ctx context.Context,
	actor policyDomain.Actor,
	input CreateInput,
) (*containerDomain.Container, error) {
	containerType, err := containerDomain.ParseType(input.Type)
	if err != nil {
		return nil, err
	}

	if err := uc.engine.Decide(ctx, actor, policyDomain.ActionContainerCreate); err != nil {
		return nil, err
	}

	owner := actor.User
	if actor.IsAdmin() && input.Login != "" {
		owner, err = uc.resolver.Resolve(ctx, input.Login, input.Realm)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	container := &containerDomain.Container{
		ID:          uuid.Must(uuid.NewV7()),
		Serial:      containerType.NewSerial(),
		Type:        containerType,
		Description: input.Description,
		LastSeen:    now,
		LastUpdated: now,
		CreatedAt:   now,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.containerRepo.Create(ctx, container); err != nil {
			return err
		}
		if owner != nil {
			if err := uc.containerRepo.SetOwner(ctx, container, owner); err != nil {
				return err
			}
			if err := uc.containerRepo.ReplaceRealms(ctx, container, []string{owner.Realm}); err != nil {
				return err
			}
			container.Owner = owner
			container.Realms = []string{owner.Realm}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return container, nil
}

// Delete removes a container, unbinding its tokens and owner. The tokens
// themselves survive.
func (uc *ContainerUseCase) Delete(
	ctx context.Context,
	actor policyDomain.Actor,
	serial string,
) error {
	container, err := uc.containerRepo.GetBySerial(ctx, serial)
	if err != nil {
		return err
	}

	err = uc.engine.DecideContainer(ctx, actor, policyDomain.ActionContainerDelete, container.Owner)
	if err != nil {
		return err
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.containerRepo.Delete(ctx, container.Serial)
	})
}

// SetDescription replaces the container description; empty clears it.
func (uc *ContainerUseCase) SetDescription(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, description string,
) error {
	container, err := uc.containerRepo.GetBySerial(ctx, serial)
	if err != nil {
		return err
	}

	err = uc.engine.DecideContainer(ctx, actor, policyDomain.ActionContainerDescription, container.Owner)
	if err != nil {
		return err
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.containerRepo.SetDescription(ctx, container.Serial, description)
	})
}

// SetStates replaces the whole state set. Unknown states are rejected
// per-item, reported false in the result map without failing the call;
// recognized states are applied.
func (uc *ContainerUseCase) SetStates(
	ctx context.Context,
	actor policyDomain.Actor,
	serial string,
	states []string,
) (map[string]bool, error) {
	container, err := uc.containerRepo.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}

	err = uc.engine.DecideContainer(ctx, actor, policyDomain.ActionContainerState, container.Owner)
	if err != nil {
		return nil, err
	}

	result := make(map[string]bool, len(states))
	var accepted []string
	for _, state := range states {
		if containerDomain.ValidState(state) {
			result[state] = true
			accepted = append(accepted, state)
		} else {
			result[state] = false
		}
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.containerRepo.ReplaceStates(ctx, container, accepted)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// SetInfo sets a single info key; keys are independent, last write wins.
func (uc *ContainerUseCase) SetInfo(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, key, value string,
) error {
	if err := uc.validateInfoKey(key); err != nil {
		return err
	}

	container, err := uc.containerRepo.GetBySerial(ctx, serial)
	if err != nil {
		return err
	}

	err = uc.engine.DecideContainer(ctx, actor, policyDomain.ActionContainerInfo, container.Owner)
	if err != nil {
		return err
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.containerRepo.SetInfo(ctx, container, key, value)
	})
}

func (uc *ContainerUseCase) validateInfoKey(key string) error {
	err := validation.Validate(key,
		validation.Required.Error("key is required"),
		validation.Length(1, 255).Error("key must be between 1 and 255 characters"),
	)
	return appValidation.WrapValidationError(err)
}

// UpdateLastSeen refreshes the container's last_seen timestamp. Idempotent.
func (uc *ContainerUseCase) UpdateLastSeen(ctx context.Context, serial string) error {
	return uc.containerRepo.UpdateLastSeen(ctx, serial)
}

// Get retrieves the full container aggregate. Self-service actors may only
// see containers they own or that are ownerless.
func (uc *ContainerUseCase) Get(
	ctx context.Context,
	actor policyDomain.Actor,
	serial string,
) (*containerDomain.Container, error) {
	container, err := uc.containerRepo.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}

	err = uc.engine.DecideContainer(ctx, actor, policyDomain.ActionContainerList, container.Owner)
	if err != nil {
		return nil, err
	}

	return container, nil
}

// List retrieves a page of containers. Self-service listings are restricted
// to the acting user's own containers.
func (uc *ContainerUseCase) List(
	ctx context.Context,
	actor policyDomain.Actor,
	input ListInput,
) (*ListResult, error) {
	if err := uc.engine.Decide(ctx, actor, policyDomain.ActionContainerList); err != nil {
		return nil, err
	}

	filter := repository.Filter{
		TokenSerial:     input.TokenSerial,
		SerialSubstring: input.SerialSubstring,
	}
	if input.Type != "" {
		containerType, err := containerDomain.ParseType(input.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = containerType
	}
	if !actor.IsAdmin() {
		filter.Owner = actor.User
	}

	containers, count, err := uc.containerRepo.List(ctx, filter, input.Page.Size, input.Page.Offset())
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Containers: containers,
		Cursors:    httputil.NewCursors(input.Page, count),
	}, nil
}

// StateTypes returns the state vocabulary with the exclusions per state.
func (uc *ContainerUseCase) StateTypes(ctx context.Context) map[string][]string {
	return containerDomain.StateTypes()
}

// Types returns the known container types with description and token types.
func (uc *ContainerUseCase) Types(ctx context.Context) map[containerDomain.Type]TypeInfo {
	out := make(map[containerDomain.Type]TypeInfo)
	for _, containerType := range containerDomain.Types() {
		out[containerType] = TypeInfo{
			Description: containerType.Description(),
			TokenTypes:  containerType.TokenTypes(),
		}
	}
	return out
}

// CreateTemplate stores a named per-type container template.
func (uc *ContainerUseCase) CreateTemplate(
	ctx context.Context,
	actor policyDomain.Actor,
	typeName, name, options string,
) (*containerDomain.Template, error) {
	containerType, err := containerDomain.ParseType(typeName)
	if err != nil {
		return nil, err
	}
	if err := uc.validateTemplateName(name); err != nil {
		return nil, err
	}

	if err := uc.engine.Decide(ctx, actor, policyDomain.ActionContainerTemplate); err != nil {
		return nil, err
	}

	template := &containerDomain.Template{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      name,
		Type:      containerType,
		Options:   options,
		CreatedAt: time.Now().UTC(),
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.containerRepo.CreateTemplate(ctx, template)
	})
	if err != nil {
		return nil, err
	}

	return template, nil
}

func (uc *ContainerUseCase) validateTemplateName(name string) error {
	err := validation.Validate(name,
		validation.Required.Error("name is required"),
		appValidation.NotBlank,
		validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
	)
	return appValidation.WrapValidationError(err)
}

// TemplateOptions returns the template options valid for the type.
func (uc *ContainerUseCase) TemplateOptions(
	ctx context.Context,
	typeName string,
) (map[string]any, error) {
	containerType, err := containerDomain.ParseType(typeName)
	if err != nil {
		return nil, err
	}
	return containerType.TemplateOptions(), nil
}
