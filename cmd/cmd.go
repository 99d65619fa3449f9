// submodule cmd contains command definitions
package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/campuskit/campusctl/internal/screens"
)

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in against the school backend and persist the session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "remember",
						Usage: "Remember the email for the next login",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the in-memory session and the persisted token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the restored session phase and cached profile",
				Action: r.AuthStatus,
			},
		},
	}
}

// manageCommand builds one subcommand per managed entity, each with
// list/add/edit/delete operations derived from the entity's field registry.
func manageCommand(r *Runner) *cli.Command {
	entities := []*cli.Command{}
	for _, spec := range screens.Registry() {
		entities = append(entities, entityCommand(r, spec))
	}

	return &cli.Command{
		Name:     "manage",
		Aliases:  []string{"m"},
		Usage:    "List and edit school records",
		Commands: entities,
	}
}

func entityCommand(r *Runner, spec screens.Spec) *cli.Command {
	return &cli.Command{
		Name:  spec.Entity.Name,
		Usage: fmt.Sprintf("Manage %s", spec.Entity.Name),
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: fmt.Sprintf("List %s", spec.Entity.Name),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return r.EntityList(ctx, cmd, spec)
				},
			},
			{
				Name:  "add",
				Usage: fmt.Sprintf("Create a new record in %s", spec.Entity.Name),
				Flags: fieldFlags(spec),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return r.EntityAdd(ctx, cmd, spec)
				},
			},
			{
				Name:  "edit",
				Usage: "Update an existing record by id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: fieldFlags(spec),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return r.EntityEdit(ctx, cmd, spec)
				},
			},
			{
				Name:  "delete",
				Usage: "Delete a record by id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return r.EntityDelete(ctx, cmd, spec)
				},
			},
		},
	}
}

// fieldFlags maps an entity's form fields onto string flags.
func fieldFlags(spec screens.Spec) []cli.Flag {
	flags := make([]cli.Flag, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		flags = append(flags, &cli.StringFlag{
			Name:  f.Name,
			Usage: f.Label,
		})
	}
	return flags
}

// snapshotCommand exports every entity list to local JSON files.
func snapshotCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "export",
		Aliases: []string{"snapshot"},
		Usage:   "Export all entity lists to a local snapshot directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Requests per second against the backend",
				Value: 2.0,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the snapshot summary as JSON",
			},
		},
		Action: r.Snapshot,
	}
}

// tuiCommand returns the top-level TUI command for interactive record management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}
