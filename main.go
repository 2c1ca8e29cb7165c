// Command collect-game runs the 2D collect game.
//
// It supports four commands:
//  1. "play" (default) – opens the desktop window on a single map file
//  2. "serve" – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  3. "mcp" – runs an MCP stdio server backed by an internal HTTP API
//  4. "validate" – checks map files and reports reachability warnings
//
// Tuning comes from an optional YAML settings file and COLLECT_* environment
// variables; a .env file in the working directory is loaded first.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/collect-game/desktop"
	"github.com/wricardo/collect-game/game/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "collect-game"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func settingsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML settings file",
		Sources: cli.EnvVars("COLLECT_CONFIG"),
		Local:   true,
	}
}

func playFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "map",
			Aliases: []string{"m"},
			Value:   "map.txt",
			Usage:   "map file to play",
			Local:   true,
		},
		&cli.StringFlag{
			Name:    "assets",
			Aliases: []string{"a"},
			Value:   "assets",
			Usage:   "directory holding sprite images",
			Local:   true,
		},
		settingsFlag(),
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "collect every item, reach the exit, avoid the enemies",
		Version: Version,
		Flags: append(playFlags(), &cli.BoolFlag{
			Name:  "debug",
			Usage: "include file and line in log output",
		}),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: playAction,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "open the game window (default)",
				Flags:  playFlags(),
				Action: playAction,
			},
			{
				Name:  "serve",
				Usage: "run the multi-session HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host"},
					&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
					&cli.StringFlag{Name: "maps-dir", Usage: "directory containing map files (overrides settings)"},
					settingsFlag(),
					&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
					&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
					&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts, err := serverOptionsFromCommand(cmd)
					if err != nil {
						return err
					}
					return runServer(ctx, opts)
				},
			},
			{
				Name:  "mcp",
				Usage: "serve MCP tools over stdio",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "port", Value: 0, Usage: "internal HTTP API port (0 picks a free port)"},
					&cli.StringFlag{Name: "maps-dir", Usage: "directory containing map files (overrides settings)"},
					settingsFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts, err := serverOptionsFromCommand(cmd)
					if err != nil {
						return err
					}
					opts.Host = "127.0.0.1"
					return runStdioMCP(ctx, opts)
				},
			},
			{
				Name:      "validate",
				Usage:     "check map files and report playability warnings",
				ArgsUsage: "FILE...",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						return fmt.Errorf("validate needs at least one map file")
					}
					return validateMaps(os.Stdout, cmd.Args().Slice())
				},
			},
		},
	}
}

func playAction(ctx context.Context, cmd *cli.Command) error {
	settings, err := config.LoadSettings(cmd.String("config"))
	if err != nil {
		return err
	}

	return desktop.Run(desktop.Options{
		MapPath:   cmd.String("map"),
		AssetsDir: cmd.String("assets"),
		Config:    settings.Config,
	})
}
