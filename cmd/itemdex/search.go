package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/itemdex/internal/config"
	"github.com/kailas-cloud/itemdex/internal/domain"
	"github.com/kailas-cloud/itemdex/internal/domain/price"
	logpkg "github.com/kailas-cloud/itemdex/internal/logger"
	catalogrepo "github.com/kailas-cloud/itemdex/internal/repository/catalog"
	"github.com/kailas-cloud/itemdex/internal/repository/collection"
	"github.com/kailas-cloud/itemdex/internal/repository/facetindex"
	searchuc "github.com/kailas-cloud/itemdex/internal/usecase/search"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run one query and print the results",
		ArgsUsage: "<query...>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "Search a catalog dump file instead of the store",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Price source: backpack.tf or trade.tf (default from config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("a query is required")
			}

			logger, err := logpkg.NewLogger("cli", c.String("log-level"))
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			ctx = logpkg.ContextWithLogger(ctx, logger)

			var sourceFlag *string
			if c.IsSet("source") {
				s := c.String("source")
				sourceFlag = &s
			}

			if path := c.String("catalog"); path != "" {
				return searchDump(ctx, c.Root().Writer, path, query, sourceFlag)
			}
			return searchStore(ctx, c.Root().Writer, c.String("env"), query, sourceFlag, logger)
		},
	}
}

// resolveSource picks the flag value over the fallback.
func resolveSource(flag *string, fallback price.Source) (price.Source, error) {
	if flag == nil {
		return fallback, nil
	}
	src, err := price.ParseSource(*flag)
	if err != nil {
		return "", fmt.Errorf("--source: %w", err)
	}
	return src, nil
}

// loadDumpCatalog builds a static catalog from a dump file.
func loadDumpCatalog(path string) (*searchuc.Catalog, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	dump, err := catalogrepo.ReadDump(f)
	if err != nil {
		return nil, err
	}
	items, err := collection.NewStatic(dump.Resolve())
	if err != nil {
		return nil, fmt.Errorf("build collection: %w", err)
	}
	return searchuc.NewStaticCatalog(&searchuc.Snapshot{
		Items:    items,
		Ref:      dump.Reference(),
		LoadedAt: time.Now(),
	}), nil
}

func searchDump(ctx context.Context, w io.Writer, path, query string, sourceFlag *string) error {
	source, err := resolveSource(sourceFlag, price.DefaultSource)
	if err != nil {
		return err
	}
	catalog, err := loadDumpCatalog(path)
	if err != nil {
		return err
	}
	groups, err := searchuc.New(catalog).Search(ctx, query, source)
	if err != nil {
		return err
	}
	return renderGroups(ctx, w, query, groups)
}

func searchStore(
	ctx context.Context,
	w io.Writer,
	env, query string,
	sourceFlag *string,
	logger *zap.Logger,
) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	source, err := resolveSource(sourceFlag, cfg.PriceSource())
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	keys := domain.NewKeys(cfg.Storage.KeyPrefix)
	var facets searchuc.FacetIndex
	if cfg.Search.FacetIndex.Enabled {
		facets = facetindex.New(store, keys, cfg.FacetTTL(), nil, logger)
	}
	catalog := searchuc.NewCatalog(
		collection.NewRemote(store, keys, cfg.Search.HashBufferSize),
		facets,
		catalogrepo.New(store, keys),
		logger,
	)
	if err := catalog.Reload(ctx); err != nil {
		return err
	}

	groups, err := searchuc.New(catalog).Search(ctx, query, source)
	if err != nil {
		return err
	}
	return renderGroups(ctx, w, query, groups)
}
