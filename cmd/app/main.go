package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal"
	"github.com/starford/raido/internal/cache"
	"github.com/starford/raido/internal/collection"
	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/listservice"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/sources"
	pkgconfig "github.com/starford/raido/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func cachePath(cfg *internal.Config) (string, error) {
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path, nil
	}
	return cache.DefaultPath()
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

// cacheUpdate re-parses the sources and rewrites the JSON cache. It does
// not touch the SQLite index; the server keeps that in sync itself.
func cacheUpdate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, err := cachePath(cfg)
	if err != nil {
		return err
	}

	paths := sources.Resolve(cfg.Sources.Paths)
	res := collection.Generate(ctx, paths, cfg.Sources.ExcludeTags)
	for _, msg := range res.Errors {
		fmt.Fprintln(os.Stderr, msg)
	}
	for _, msg := range res.Warnings {
		fmt.Fprintln(os.Stderr, msg)
	}

	encoded, err := collection.EncodeJSON(res.Data)
	if err != nil {
		return err
	}
	if err := cache.Write(path, encoded); err != nil {
		return err
	}

	fmt.Printf("Cache updated: %d lists, %d items (%s)\n",
		res.Data.Metadata.TotalLists, res.Data.Metadata.TotalItems, path)
	return nil
}

func cacheInfo(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, err := cachePath(cfg)
	if err != nil {
		return err
	}

	info := cache.Stat(path)
	if !info.Exists {
		fmt.Printf("Cache file does not exist: %s\n", path)
		return nil
	}

	loader := cache.NewLoader(path)
	warnings, err := loader.Load()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
	}

	fmt.Printf("Cache file: %s\n", path)
	fmt.Printf("Size: %d bytes\n", info.Size)
	fmt.Printf("Modified: %s\n", info.LastModified.Format("2006-01-02 15:04:05"))
	fmt.Printf("Lists: %d\n", len(loader.Lists()))
	fmt.Printf("Items: %d\n", loader.ItemCount())
	if cache.IsStale(path, sources.Resolve(cfg.Sources.Paths)) {
		fmt.Println("Status: stale (sources changed since last update)")
	} else {
		fmt.Println("Status: fresh")
	}
	return nil
}

func validate(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	problems := cfg.Sources.Check()
	if len(problems) == 0 {
		fmt.Println("Configuration is valid")
		return nil
	}
	for _, p := range problems {
		fmt.Fprintln(os.Stderr, p)
	}
	return fmt.Errorf("%d configuration problem(s) found", len(problems))
}

// mcpServe runs the MCP server on stdio. Logs go to stderr so they do
// not corrupt the protocol stream.
func mcpServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, err := cachePath(cfg)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	svc := listservice.NewService(db, cfg.Sources.Paths, cfg.Sources.ExcludeTags, path, logger)
	if _, err := svc.Refresh(ctx); err != nil {
		logger.Warn("initial refresh failed", slog.String("error", err.Error()))
	}

	return mcpserver.New(svc).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "raido",
		Usage:  "Awesome-list collector with tag inheritance, full-text search, and a REST API",
		Action: serve,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server (default)",
				Action: serve,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:  "cache",
				Usage: "Manage the JSON collection cache",
				Commands: []*cli.Command{
					{
						Name:   "update",
						Usage:  "Re-parse sources and rewrite the cache",
						Action: cacheUpdate,
						Flags:  []cli.Flag{configFlag},
					},
					{
						Name:   "info",
						Usage:  "Show cache file statistics",
						Action: cacheInfo,
						Flags:  []cli.Flag{configFlag},
					},
				},
			},
			{
				Name:   "validate",
				Usage:  "Validate the configuration and source paths",
				Action: validate,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdio",
				Action: mcpServe,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
