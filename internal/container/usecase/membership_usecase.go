package usecase

import (
	"context"
	"strings"

	containerDomain "github.com/allisson/tokenbox/internal/container/domain"
	apperrors "github.com/allisson/tokenbox/internal/errors"
	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
	tokenDomain "github.com/allisson/tokenbox/internal/token/domain"
)

// AssignUser makes the resolved user the container owner. Re-assigning the
// current owner is an idempotent success; a different owner is a conflict.
func (uc *ContainerUseCase) AssignUser(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, login, realm string,
) (bool, error) {
	container, err := uc.containerRepo.GetBySerial(ctx, serial)
	if err != nil {
		return false, err
	}

	err = uc.engine.DecideContainer(ctx, actor, policyDomain.ActionContainerAssignUser, container.Owner)
	if err != nil {
		return false, err
	}

	user, err := uc.resolver.Resolve(ctx, login, realm)
	if err != nil {
		return false, err
	}

	if container.Owner != nil {
		if container.Owner.Equal(user) {
			return true, nil
		}
		return false, containerDomain.ErrAlreadyAssigned
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.containerRepo.SetOwner(ctx, container, user); err != nil {
			return err
		}
		// The owner's realm becomes visible on the container.
		if !container.HasRealm(user.Realm) {
			realms := append(append([]string(nil), container.Realms...), user.Realm)
			return uc.containerRepo.ReplaceRealms(ctx, container, realms)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// UnassignUser removes the named user as owner. Unassigning a user who is not
// the current owner reports false without error or state change.
func (uc *ContainerUseCase) UnassignUser(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, login, realm string,
) (bool, error) {
	container, err := uc.containerRepo.GetBySerial(ctx, serial)
	if err != nil {
		return false, err
	}

	err = uc.engine.DecideContainer(ctx, actor, policyDomain.ActionContainerUnassignUser, container.Owner)
	if err != nil {
		return false, err
	}

	user, err := uc.resolver.Resolve(ctx, login, realm)
	if err != nil {
		return false, err
	}

	var removed bool
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		removed, err = uc.containerRepo.RemoveOwner(ctx, container, user)
		return err
	})
	if err != nil {
		return false, err
	}

	return removed, nil
}

// AddTokens binds a comma-separated list of token serials to the container.
// Results are per token: a token bound to a different container, unknown to
// the catalog, or (under user scope) owned by someone else reports false
// without failing the siblings.
func (uc *ContainerUseCase) AddTokens(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, tokenSerials string,
) (map[string]bool, error) {
	container, err := uc.containerRepo.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}

	err = uc.engine.DecideContainer(ctx, actor, policyDomain.ActionContainerAddToken, container.Owner)
	if err != nil {
		return nil, err
	}

	serials := splitSerials(tokenSerials)
	if len(serials) == 0 {
		return nil, containerDomain.ErrMissingSerial
	}

	result := make(map[string]bool, len(serials))
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		for _, tokenSerial := range serials {
			token, err := uc.tokenRepo.GetBySerial(ctx, tokenSerial)
			if err != nil {
				if apperrors.Is(err, tokenDomain.ErrTokenNotFound) {
					result[tokenSerial] = false
					continue
				}
				return err
			}
			if !uc.mayHandleToken(actor, token) {
				result[tokenSerial] = false
				continue
			}
			if token.ContainerSerial == container.Serial {
				// Already a member of this container.
				result[tokenSerial] = true
				continue
			}
			if token.ContainerSerial != "" {
				// Bound to a different container.
				result[tokenSerial] = false
				continue
			}
			added, err := uc.containerRepo.AddToken(ctx, container, tokenSerial)
			if err != nil {
				return err
			}
			result[tokenSerial] = added
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RemoveTokens unbinds a comma-separated list of token serials. Removing a
// token not bound to this container reports false without error.
func (uc *ContainerUseCase) RemoveTokens(
	ctx context.Context,
	actor policyDomain.Actor,
	serial, tokenSerials string,
) (map[string]bool, error) {
	container, err := uc.containerRepo.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}

	err = uc.engine.DecideContainer(ctx, actor, policyDomain.ActionContainerRemoveToken, container.Owner)
	if err != nil {
		return nil, err
	}

	serials := splitSerials(tokenSerials)
	if len(serials) == 0 {
		return nil, containerDomain.ErrMissingSerial
	}

	result := make(map[string]bool, len(serials))
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		for _, tokenSerial := range serials {
			token, err := uc.tokenRepo.GetBySerial(ctx, tokenSerial)
			if err != nil {
				if apperrors.Is(err, tokenDomain.ErrTokenNotFound) {
					result[tokenSerial] = false
					continue
				}
				return err
			}
			if !uc.mayHandleToken(actor, token) {
				result[tokenSerial] = false
				continue
			}
			removed, err := uc.containerRepo.RemoveToken(ctx, container, tokenSerial)
			if err != nil {
				return err
			}
			result[tokenSerial] = removed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// mayHandleToken applies the user-scope token ownership condition: an
// ownerless token passes, a token owned by someone else does not.
func (uc *ContainerUseCase) mayHandleToken(
	actor policyDomain.Actor,
	token *tokenDomain.Token,
) bool {
	if actor.IsAdmin() {
		return true
	}
	return token.Owner == nil || token.Owner.Equal(actor.User)
}

// splitSerials splits a comma-separated serial list, trimming surrounding
// whitespace and dropping empty items.
func splitSerials(list string) []string {
	var serials []string
	for _, item := range strings.Split(list, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			serials = append(serials, trimmed)
		}
	}
	return serials
}
