package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	identityService "github.com/allisson/tokenbox/internal/identity/service"
	tokenDomain "github.com/allisson/tokenbox/internal/token/domain"
)

// CreateTokenInput contains the parameters for token registration.
type CreateTokenInput struct {
	Serial string
	Type   string
	// Login and Realm optionally name the token owner.
	Login string
	Realm string
}

// tokenCreator is the token catalog surface this command needs.
type tokenCreator interface {
	Create(ctx context.Context, token *tokenDomain.Token) error
}

// RunCreateToken registers a token in the catalog, optionally assigned to a
// user identity.
//
// Requirements: Database must be migrated and accessible.
func RunCreateToken(
	ctx context.Context,
	tokens tokenCreator,
	resolver identityService.Resolver,
	logger *slog.Logger,
	writer io.Writer,
	input CreateTokenInput,
) error {
	serial := strings.TrimSpace(input.Serial)
	tokenType := strings.ToLower(strings.TrimSpace(input.Type))
	if serial == "" || tokenType == "" {
		return fmt.Errorf("serial and type are required")
	}

	logger.Info("registering token",
		slog.String("serial", serial),
		slog.String("type", tokenType),
	)

	token := &tokenDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		Serial:    serial,
		Type:      tokenType,
		CreatedAt: time.Now().UTC(),
	}

	if input.Login != "" {
		owner, err := resolver.Resolve(ctx, input.Login, input.Realm)
		if err != nil {
			return fmt.Errorf("failed to resolve owner: %w", err)
		}
		token.Owner = owner
	}

	if err := tokens.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to register token: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "Token registered successfully!")
	_, _ = fmt.Fprintf(writer, "Serial: %s\n", token.Serial)
	_, _ = fmt.Fprintf(writer, "Type: %s\n", token.Type)
	if token.Owner != nil {
		_, _ = fmt.Fprintf(writer, "Owner: %s\n", token.Owner.String())
	}

	logger.Info("token registered successfully",
		slog.String("token_id", token.ID.String()),
		slog.String("serial", serial),
	)

	return nil
}
