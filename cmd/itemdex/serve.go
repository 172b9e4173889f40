package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/itemdex/internal/config"
	"github.com/kailas-cloud/itemdex/internal/domain"
	logpkg "github.com/kailas-cloud/itemdex/internal/logger"
	"github.com/kailas-cloud/itemdex/internal/metrics"
	catalogrepo "github.com/kailas-cloud/itemdex/internal/repository/catalog"
	"github.com/kailas-cloud/itemdex/internal/repository/collection"
	"github.com/kailas-cloud/itemdex/internal/repository/facetindex"
	chiTransport "github.com/kailas-cloud/itemdex/internal/transport/chi"
	"github.com/kailas-cloud/itemdex/internal/version"
	healthuc "github.com/kailas-cloud/itemdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/itemdex/internal/usecase/search"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP search API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("env"), c.String("log-level"))
		},
	}
}

func serve(ctx context.Context, env, levelOverride string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if levelOverride == "" {
		levelOverride = cfg.Logging.Level
	}
	logger, err := logpkg.NewLogger(env, levelOverride)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting itemdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("price_source", string(cfg.PriceSource())),
		zap.Bool("facet_index", cfg.Search.FacetIndex.Enabled),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	// Explicit registration, no init()
	metrics.RegisterSearchMetrics()

	keys := domain.NewKeys(cfg.Storage.KeyPrefix)
	items := collection.NewRemote(store, keys, cfg.Search.HashBufferSize)

	// Pass a nil interface, not a typed nil pointer, when the index is off.
	var facets searchuc.FacetIndex
	if cfg.Search.FacetIndex.Enabled {
		facets = facetindex.New(store, keys, cfg.FacetTTL(), metrics.FacetCacheTotal, logger)
	}

	catalog := searchuc.NewCatalog(items, facets, catalogrepo.New(store, keys), logger)
	if err := catalog.Reload(ctx); err != nil {
		// Serve anyway; /health reports the catalog until a reload succeeds.
		logger.Error("Initial catalog load failed", zap.Error(err))
	}

	server := chiTransport.NewServer(
		searchuc.New(catalog),
		healthuc.New(store, catalog),
		cfg.PriceSource(),
		logger,
	)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      chiTransport.NewRouter(server, chiTransport.RouterOptions{APIKeys: cfg.Auth.APIKeys, Logger: logger}),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		catalog.Run(gctx, cfg.RefreshInterval())
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
