package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/itemdex/internal/config"
	dbRedis "github.com/kailas-cloud/itemdex/internal/db/redis"
	"github.com/kailas-cloud/itemdex/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    "itemdex",
		Usage:   "Search the item catalog",
		Version: version.String(),
		Writer:  os.Stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "Configuration environment (config/<env>.yaml)",
				Value: config.GetEnv(),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the log level: debug, info, warn, error",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
			importCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "itemdex:", err)
		os.Exit(1)
	}
}

// openStore connects to the configured store and waits until it answers.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (*dbRedis.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("store not ready: %w", err)
	}
	logger.Info("Connected to store", zap.Strings("addrs", cfg.Database.Addrs), zap.Int("db", cfg.Database.DB))
	return store, nil
}
