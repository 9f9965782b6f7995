package usecase

import (
	"context"
	"strings"

	apperrors "github.com/allisson/tokenbox/internal/errors"
	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
	realmDomain "github.com/allisson/tokenbox/internal/realm/domain"
)

// SetRealms replaces the container's realm set. Each supplied realm name is
// validated independently: nonexistent realms report false in the result map
// without aborting the call. The owning user's realm is always retained. The
// Deleted flag reports whether any previously-assigned realm was removed.
// An empty realm list clears the set (minus the owner realm).
func (uc *ContainerUseCase) SetRealms(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, realmNames string,
) (*SetRealmsResult, error) {
	container, err := uc.containerRepo.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}

	err = uc.engine.DecideContainer(ctx, actor, policyDomain.ActionContainerRealms, container.Owner)
	if err != nil {
		return nil, err
	}

	result := &SetRealmsResult{Realms: map[string]bool{}}
	var accepted []string
	for _, name := range splitSerials(realmNames) {
		name = strings.ToLower(name)
		if _, err := uc.realmRepo.GetByName(ctx, name); err != nil {
			if apperrors.Is(err, realmDomain.ErrRealmNotFound) {
				result.Realms[name] = false
				continue
			}
			return nil, err
		}
		result.Realms[name] = true
		accepted = append(accepted, name)
	}

	if container.Owner != nil && !contains(accepted, container.Owner.Realm) {
		accepted = append(accepted, container.Owner.Realm)
		result.Realms[container.Owner.Realm] = true
	}

	for _, previous := range container.Realms {
		if !contains(accepted, previous) {
			result.Deleted = true
			break
		}
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.containerRepo.ReplaceRealms(ctx, container, accepted)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
