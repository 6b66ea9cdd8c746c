// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func fixturesFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "fixtures",
		Usage: "Serve pages from the local fixture database instead of the API",
	}
}

// listsCommand handles list page operations
func listsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "lists",
		Aliases: []string{"ls"},
		Usage:   "Fetch and render aggregated list pages",
		Commands: []*cli.Command{
			{
				Name:  "page",
				Usage: "Fetch pages of a list and print the combined result",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tag",
						Aliases:  []string{"t"},
						Usage:    "List tag (see 'lists tags')",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "parent",
						Aliases:  []string{"p"},
						Usage:    "Parent entity id (track or user)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "actor",
						Usage: "Acting user id for personalization",
					},
					&cli.IntFlag{
						Name:  "size",
						Usage: "Page size (0 uses the configured default)",
					},
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Number of consecutive pages to fetch",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
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
					fixturesFlag(),
				},
				Action: r.ListPage,
			},
			{
				Name:   "tags",
				Usage:  "Print the registered list tags",
				Flags:  []cli.Flag{fixturesFlag()},
				Action: r.ListTags,
			},
		},
	}
}

// usersCommand handles user lookups
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "User lookups",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Fetch a user by id or handle and print their profile",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "id",
						Usage: "User id",
					},
					&cli.StringFlag{
						Name:  "handle",
						Usage: "User handle (case-insensitive)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
					fixturesFlag(),
				},
				Action: r.UserGet,
			},
		},
	}
}

// tracksCommand handles track lookups
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Track lookups",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Fetch a track by id and print it",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Track id",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
					fixturesFlag(),
				},
				Action: r.TrackGet,
			},
		},
	}
}

// setupCommand handles configuration and fixture database setup
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config.toml from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "fixtures",
				Usage: "Create and seed the local fixture database",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "seed",
						Usage: "Seed demo data after creating the schema",
						Value: true,
					},
				},
				Action: r.SetupFixtures,
			},
		},
	}
}

// browseCommand launches the interactive list browser
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui", "ui"},
		Usage:   "Interactive TUI for browsing lists",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "user",
				Usage: "User id whose lists to browse",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "track",
				Usage: "Track id whose lists to browse",
			},
			&cli.IntFlag{
				Name:  "actor",
				Usage: "Acting user id for personalization",
			},
			fixturesFlag(),
		},
		Action: r.Browse,
	}
}
