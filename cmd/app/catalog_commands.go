package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenbox/cmd/app/commands"
	"github.com/allisson/tokenbox/internal/app"
	"github.com/allisson/tokenbox/internal/config"
)

func getCatalogCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-admin",
			Usage: "Create an administrator account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Administrator login name",
				},
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Administrator password",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				authUC, err := container.AuthUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateAdmin(
					ctx,
					authUC,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.String("password"),
				)
			},
		},
		{
			Name:  "create-realm",
			Usage: "Create a realm",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Realm name (stored lowercase)",
				},
				&cli.BoolFlag{
					Name:    "default",
					Aliases: []string{"d"},
					Value:   false,
					Usage:   "Mark this realm as the default realm",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				realmRepo, err := container.RealmRepository()
				if err != nil {
					return err
				}

				return commands.RunCreateRealm(
					ctx,
					realmRepo,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.Bool("default"),
				)
			},
		},
		{
			Name:  "create-user",
			Usage: "Create a user identity in a realm",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "login",
					Aliases:  []string{"l"},
					Required: true,
					Usage:    "User login name",
				},
				&cli.StringFlag{
					Name:     "realm",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Realm the user belongs to",
				},
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "User password",
				},
				&cli.StringFlag{
					Name:    "resolver",
					Value:   "local",
					Usage:   "Resolver name recorded for the identity",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				userRepo, err := container.UserRepository()
				if err != nil {
					return err
				}

				realmRepo, err := container.RealmRepository()
				if err != nil {
					return err
				}

				passwordService, err := container.PasswordService()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					userRepo,
					realmRepo,
					passwordService,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.CreateUserInput{
						Login:    cmd.String("login"),
						Realm:    cmd.String("realm"),
						Password: cmd.String("password"),
						Resolver: cmd.String("resolver"),
					},
				)
			},
		},
		{
			Name:  "create-token",
			Usage: "Register a token in the catalog",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "serial",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Token serial",
				},
				&cli.StringFlag{
					Name:     "type",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Token type (e.g. hotp, totp, sms, daypassword)",
				},
				&cli.StringFlag{
					Name:  "login",
					Usage: "Owner login (omit for an unassigned token)",
				},
				&cli.StringFlag{
					Name:  "realm",
					Usage: "Owner realm",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokenRepo, err := container.TokenRepository()
				if err != nil {
					return err
				}

				resolver, err := container.Resolver()
				if err != nil {
					return err
				}

				return commands.RunCreateToken(
					ctx,
					tokenRepo,
					resolver,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.CreateTokenInput{
						Serial: cmd.String("serial"),
						Type:   cmd.String("type"),
						Login:  cmd.String("login"),
						Realm:  cmd.String("realm"),
					},
				)
			},
		},
	}
}
