package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/othala/internal"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/mcpserver"
	"github.com/starford/othala/internal/migrate"
	"github.com/starford/othala/internal/storage"
	"github.com/starford/othala/internal/wikisvc"
	pkgconfig "github.com/starford/othala/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// generate scans the content root once and writes the index artifact to the
// output path, without starting a server or watcher.
func generate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	store, err := storage.NewFS(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	snap, err := index.NewScanner(store, logger).Scan()
	if err != nil {
		return fmt.Errorf("scan content: %w", err)
	}

	output := cmd.String("output")
	if err := index.WriteArtifact(output, *snap); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	logger.Info("index artifact written",
		slog.String("output", output),
		slog.Int("nodes", len(snap.Nodes)))
	return nil
}

// migrateSlugs repairs broken frontmatter delimiters and backfills missing
// slug fields across the whole content root.
func migrateSlugs(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	store, err := storage.NewFS(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	changed, err := migrate.Slugs(store, logger)
	if err != nil {
		return fmt.Errorf("migrate slugs: %w", err)
	}

	logger.Info("slug migration complete", slog.Int("files_changed", changed))
	return nil
}

// serveMCP runs the MCP server on stdio. Logs go to stderr so stdout stays
// clean for the protocol.
func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	store, err := storage.NewFS(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	mgr := index.NewManager(store, cfg.Content.Path, logger, nil)
	if err := mgr.Initialize(ctx); err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer mgr.Close()

	svc := wikisvc.NewService(store, mgr)
	return mcpserver.New(store, svc).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:   "othala",
		Usage:  "Local-first markdown wiki with live tree indexing, ordering metadata, and plain-text search",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Scan the content root once and write the index artifact",
				Action: generate,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the generated index artifact",
						Value:   "index.json",
					},
				},
			},
			{
				Name:   "migrate",
				Usage:  "Repair frontmatter delimiters and backfill missing slugs",
				Action: migrateSlugs,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the wiki over the Model Context Protocol on stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
