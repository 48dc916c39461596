package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/ansuz/internal"
	pkgconfig "github.com/starford/ansuz/pkg/config"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func gatewayFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("ANSUZ_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Host to bind to",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "Port to listen on",
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "Logseq HTTP API Server token used for append endpoints",
			Sources: cli.EnvVars("LOGSEQ_API_SERVER_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "logseq-bin",
			Usage:   "Path to the logseq CLI binary",
			Sources: cli.EnvVars("LOGSEQ_BIN"),
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging (records searches and graph names, privacy warning)",
		},
	}
}

// buildConfig layers defaults, an optional YAML file, and CLI flags. An
// explicitly passed config path must exist; the default path may not.
func buildConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()

	configPath := cmd.String("config")
	if cmd.IsSet("config") {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if err := pkgconfig.LoadIfPresent(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("host") {
		cfg.App.HTTP.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.App.HTTP.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("api-token") {
		cfg.Auth.Token = cmd.String("api-token")
	}
	if cmd.IsSet("logseq-bin") {
		cfg.Tool.Bin = cmd.String("logseq-bin")
	}
	if cmd.Bool("debug") {
		cfg.App.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "ansuz",
		Usage:  "Localhost gateway bridging launcher UIs to the Logseq CLI and the desktop app's HTTP API",
		Action: run,
		Flags:  gatewayFlags(),
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve the gateway tools over the Model Context Protocol on stdio",
				Action: runMCP,
				Flags:  gatewayFlags(),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
