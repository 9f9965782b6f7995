package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/tokenbox/internal/errors"
	realmDomain "github.com/allisson/tokenbox/internal/realm/domain"
)

// realmCreator is the realm persistence surface this command needs.
type realmCreator interface {
	Create(ctx context.Context, realm *realmDomain.Realm) error
	GetByName(ctx context.Context, name string) (*realmDomain.Realm, error)
}

// RunCreateRealm creates a new realm. Realm names are stored lowercase.
//
// Requirements: Database must be migrated and accessible.
func RunCreateRealm(
	ctx context.Context,
	realms realmCreator,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	isDefault bool,
) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("realm name is required")
	}

	logger.Info("creating new realm", slog.String("name", name))

	if _, err := realms.GetByName(ctx, name); err == nil {
		return fmt.Errorf("realm %q already exists", name)
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check realm: %w", err)
	}

	realm := &realmDomain.Realm{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      name,
		IsDefault: isDefault,
		CreatedAt: time.Now().UTC(),
	}

	if err := realms.Create(ctx, realm); err != nil {
		return fmt.Errorf("failed to create realm: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "Realm created successfully!")
	_, _ = fmt.Fprintf(writer, "ID: %s\n", realm.ID.String())
	_, _ = fmt.Fprintf(writer, "Name: %s\n", realm.Name)
	_, _ = fmt.Fprintf(writer, "Default: %t\n", realm.IsDefault)

	logger.Info("realm created successfully",
		slog.String("realm_id", realm.ID.String()),
		slog.String("name", name),
		slog.Bool("is_default", isDefault),
	)

	return nil
}
