package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// expiredTokenDeleter is the auth persistence surface this command needs.
type expiredTokenDeleter interface {
	DeleteExpiredTokens(ctx context.Context) (int64, error)
}

// RunCleanExpiredTokens deletes expired authentication tokens.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredTokens(
	ctx context.Context,
	authRepo expiredTokenDeleter,
	logger *slog.Logger,
	writer io.Writer,
) error {
	logger.Info("cleaning expired authentication tokens")

	deleted, err := authRepo.DeleteExpiredTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Deleted %d expired tokens\n", deleted)

	logger.Info("expired tokens deleted", slog.Int64("count", deleted))
	return nil
}
