package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/itemdex/internal/config"
	"github.com/kailas-cloud/itemdex/internal/domain"
	logpkg "github.com/kailas-cloud/itemdex/internal/logger"
	catalogrepo "github.com/kailas-cloud/itemdex/internal/repository/catalog"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Replace the stored catalog with a dump file",
		ArgsUsage: "<catalog.json>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one catalog file")
			}
			env := c.String("env")
			cfg, err := config.Load(env)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			level := c.String("log-level")
			if level == "" {
				level = cfg.Logging.Level
			}
			logger, err := logpkg.NewLogger(env, level)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			ctx = logpkg.ContextWithLogger(ctx, logger)

			f, err := os.Open(filepath.Clean(c.Args().First()))
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer func() { _ = f.Close() }()
			dump, err := catalogrepo.ReadDump(f)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := catalogrepo.New(store, domain.NewKeys(cfg.Storage.KeyPrefix)).Import(ctx, dump)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			_, err = fmt.Fprintln(c.Root().Writer, summaryStyle.Render(fmt.Sprintf(
				"Imported %d items (%d searchable), %d item sets, %d bundles",
				stats.Items, stats.Valid, stats.ItemSets, stats.Bundles,
			)))
			return err
		},
	}
}
