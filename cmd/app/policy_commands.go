package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenbox/cmd/app/commands"
	"github.com/allisson/tokenbox/internal/app"
	"github.com/allisson/tokenbox/internal/config"
)

func getPolicyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "set-policy",
			Usage: "Create or update a policy rule",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Unique rule name",
				},
				&cli.StringFlag{
					Name:     "scope",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Rule scope: admin or user",
				},
				&cli.StringFlag{
					Name:     "action",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Action the rule permits (e.g. container_create)",
				},
				&cli.BoolFlag{
					Name:  "active",
					Value: true,
					Usage: "Whether the rule participates in decisions",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				policyUC, err := container.PolicyUseCase()
				if err != nil {
					return err
				}

				return commands.RunSetPolicy(
					ctx,
					policyUC,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.SetPolicyInput{
						Name:   cmd.String("name"),
						Scope:  cmd.String("scope"),
						Action: cmd.String("action"),
						Active: cmd.Bool("active"),
					},
				)
			},
		},
		{
			Name:  "delete-policy",
			Usage: "Delete a policy rule by name",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Rule name",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				policyUC, err := container.PolicyUseCase()
				if err != nil {
					return err
				}

				return commands.RunDeletePolicy(
					ctx,
					policyUC,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
				)
			},
		},
		{
			Name:  "list-policies",
			Usage: "List configured policy rules",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				policyUC, err := container.PolicyUseCase()
				if err != nil {
					return err
				}

				return commands.RunListPolicies(
					ctx,
					policyUC,
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
