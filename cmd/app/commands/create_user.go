package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	authService "github.com/allisson/tokenbox/internal/auth/service"
	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
	realmDomain "github.com/allisson/tokenbox/internal/realm/domain"
)

// CreateUserInput contains the parameters for user creation.
type CreateUserInput struct {
	Login    string
	Realm    string
	Password string
	Resolver string
}

// userCreator is the identity persistence surface this command needs.
type userCreator interface {
	Create(ctx context.Context, user *identityDomain.User, passwordHash string) error
}

// realmGetter checks realm existence.
type realmGetter interface {
	GetByName(ctx context.Context, name string) (*realmDomain.Realm, error)
}

// RunCreateUser creates a new user identity in an existing realm.
//
// Requirements: Database must be migrated and accessible; the realm must
// already exist.
func RunCreateUser(
	ctx context.Context,
	users userCreator,
	realms realmGetter,
	passwordService authService.PasswordService,
	logger *slog.Logger,
	writer io.Writer,
	input CreateUserInput,
) error {
	login := strings.TrimSpace(input.Login)
	realm := strings.ToLower(strings.TrimSpace(input.Realm))
	if login == "" || realm == "" {
		return fmt.Errorf("login and realm are required")
	}
	if input.Password == "" {
		return fmt.Errorf("password is required")
	}

	logger.Info("creating new user",
		slog.String("login", login),
		slog.String("realm", realm),
	)

	if _, err := realms.GetByName(ctx, realm); err != nil {
		return fmt.Errorf("realm %q not found: %w", realm, err)
	}

	passwordHash, err := passwordService.HashPassword(input.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &identityDomain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Login:    login,
		Realm:    realm,
		Resolver: input.Resolver,
		UID:      uuid.Must(uuid.NewV7()).String(),
	}

	if err := users.Create(ctx, user, passwordHash); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "User created successfully!")
	_, _ = fmt.Fprintf(writer, "ID: %s\n", user.ID.String())
	_, _ = fmt.Fprintf(writer, "Identity: %s\n", user.String())

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("login", login),
		slog.String("realm", realm),
	)

	return nil
}
