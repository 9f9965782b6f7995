package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenbox/cmd/app/commands"
	"github.com/allisson/tokenbox/internal/app"
	"github.com/allisson/tokenbox/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "clean-expired-tokens",
			Usage: "Delete expired authentication tokens",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				authRepo, err := container.AuthRepository()
				if err != nil {
					return err
				}

				return commands.RunCleanExpiredTokens(
					ctx,
					authRepo,
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
