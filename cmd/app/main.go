package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

func runUI(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	w := os.Stdout
	if out := cmd.String("out"); out != "" && out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return internal.RunExport(ctx, w, internal.WithConfig(cfg))
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	r := os.Stdin
	if in := cmd.String("in"); in != "" && in != "-" {
		f, err := os.Open(in)
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	res, err := internal.RunImport(ctx, r, internal.WithConfig(cfg))
	if err != nil {
		return err
	}

	fmt.Printf("imported: %d created, %d updated, %d skipped\n", res.Created, res.Updated, res.Skipped)
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

// loadConfig reads the config file named by --config. The default path
// is optional so the app starts with zero setup, but a path the user
// named explicitly has to exist.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	load := pkgconfig.LoadIfExists
	if cmd.IsSet("config") {
		load = pkgconfig.Load
	}

	cfg := internal.NewDefaultConfig()
	if err := load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

func defaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(base, "ansuz", "config.yaml")
}

func main() {
	cmd := &cli.Command{
		Name:   "ansuz",
		Usage:  "Personal notes in the terminal with full-text search and JSON import/export",
		Action: runUI,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "<user config dir>/ansuz/config.yaml",
				Value:       defaultConfigPath(),
				Sources:     cli.EnvVars("ANSUZ_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "export",
				Usage:  "Write all notes as a JSON array",
				Action: runExport,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Destination file (\"-\" for stdout)",
						Value:   "-",
					},
				},
			},
			{
				Name:   "import",
				Usage:  "Read a JSON array of notes and upsert each record",
				Action: runImport,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "in",
						Aliases: []string{"i"},
						Usage:   "Source file (\"-\" for stdin)",
						Value:   "-",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve note tools over the Model Context Protocol on stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
