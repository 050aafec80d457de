// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/gateway/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Metered API access gateway",
		Version: version,
		Commands: []*cli.Command{
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
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-api",
				Usage: "Register a new upstream API in the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable API name",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "API description",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Catalog category (e.g., finance, weather)",
					},
					&cli.StringFlag{
						Name:     "endpoint",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "Upstream base URL requests are forwarded to",
					},
					&cli.Int64Flag{
						Name:     "usage-limit",
						Aliases:  []string{"l"},
						Required: true,
						Usage:    "Admitted calls allowed per API key per calendar month",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateAPI(
						ctx,
						cmd.String("name"),
						cmd.String("description"),
						cmd.String("category"),
						cmd.String("endpoint"),
						cmd.Int64("usage-limit"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "create-package",
				Usage: "Register a new package bundling catalog APIs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable package name",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Package description",
					},
					&cli.Int64Flag{
						Name:     "price-cents",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Package price per billing cycle, in cents",
					},
					&cli.StringFlag{
						Name:  "cycle",
						Value: "monthly",
						Usage: "Billing cycle: monthly, quarterly, or yearly",
					},
					&cli.StringFlag{
						Name:     "api-ids",
						Required: true,
						Usage:    "Comma-separated list of API IDs (UUIDs)",
					},
					&cli.BoolFlag{
						Name:  "popular",
						Value: false,
						Usage: "Mark the package as highlighted in the catalog",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreatePackage(
						ctx,
						cmd.String("name"),
						cmd.String("description"),
						cmd.Int64("price-cents"),
						cmd.String("cycle"),
						cmd.String("api-ids"),
						cmd.Bool("popular"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "renew-subscriptions",
				Usage: "Charge active subscriptions whose period is about to end",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Value:   100,
						Usage:   "Maximum subscriptions to process in one sweep",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRenewSubscriptions(ctx, cmd.Int("limit"), cmd.String("format"))
				},
			},
			{
				Name:  "reconcile-usage",
				Usage: "Rewrite quota counters from the usage ledger",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Value:   100,
						Usage:   "Maximum counters to check in one sweep",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunReconcileUsage(ctx, cmd.Int("limit"), cmd.String("format"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
