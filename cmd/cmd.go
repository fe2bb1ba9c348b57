// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the local database and config.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the resolution cache database and run migrations",
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
		},
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "signup",
				Usage: "Create a new account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name (defaults to the email local part)",
					},
				},
				Action: r.AuthSignUp,
			},
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and discard the saved session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session state",
				Action: r.AuthStatus,
			},
		},
	}
}

// uploadCommand handles audio upload operations
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "Upload audio files to your library",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Upload files sequentially with progress output",
				Arguments: []cli.Argument{
					&cli.StringArgs{
						Name: "files",
						Min:  1,
						Max:  -1,
					},
				},
				Action: r.UploadRun,
			},
			{
				Name:  "ui",
				Usage: "Interactive TUI for reviewing and uploading a batch",
				Arguments: []cli.Argument{
					&cli.StringArgs{
						Name: "files",
						Min:  1,
						Max:  -1,
					},
				},
				Action: r.UploadUI,
			},
		},
	}
}

// libraryCommand handles remote library listings and deletions
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Browse and manage your uploaded library",
		Commands: []*cli.Command{
			{
				Name:  "tracks",
				Usage: "List all tracks",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.LibraryTracks,
			},
			{
				Name:  "albums",
				Usage: "List all albums",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.LibraryAlbums,
			},
			{
				Name:  "export",
				Usage: "Export the track listing to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format (csv, md, txt, json)",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output base path (extension is added)",
					},
				},
				Action: r.LibraryExport,
			},
			{
				Name:  "delete-track",
				Usage: "Delete a track and its stored audio file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Track ID to delete",
						Required: true,
					},
				},
				Action: r.LibraryDeleteTrack,
			},
			{
				Name:  "delete-album",
				Usage: "Delete an album, its tracks, and their stored files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Album ID to delete",
						Required: true,
					},
				},
				Action: r.LibraryDeleteAlbum,
			},
		},
	}
}

// cacheCommand handles the local entity resolution cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the local resolution cache",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List cached entity resolutions for the signed-in user",
				Action: r.CacheList,
			},
			{
				Name:   "purge",
				Usage:  "Remove all cached resolutions for the signed-in user",
				Action: r.CachePurge,
			},
		},
	}
}
