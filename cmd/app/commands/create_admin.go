package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/tokenbox/internal/auth/usecase"
)

// RunCreateAdmin creates a new administrator account.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAdmin(
	ctx context.Context,
	useCase authUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	name, password string,
) error {
	logger.Info("creating new admin", slog.String("name", name))

	admin, err := useCase.CreateAdmin(ctx, name, password)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "Admin created successfully!")
	_, _ = fmt.Fprintf(writer, "ID: %s\n", admin.ID.String())
	_, _ = fmt.Fprintf(writer, "Name: %s\n", admin.Name)

	logger.Info("admin created successfully",
		slog.String("admin_id", admin.ID.String()),
		slog.String("name", name),
	)

	return nil
}
