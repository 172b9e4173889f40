package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/metrics"
)

// ErrNoSnapshot is returned before the first successful load.
var ErrNoSnapshot = errors.New("catalog snapshot not loaded")

// Snapshot is one consistent view of the catalog. A search holds on to the
// snapshot it started with even if a newer one is published meanwhile.
type Snapshot struct {
	Items Collection
	Ref   item.Reference
	// Facets is optional. When nil class/tag search runs in memory.
	Facets FacetIndex
	// LoadedAt is when the reference data was read.
	LoadedAt time.Time
}

// Catalog publishes snapshots to concurrent searches.
type Catalog struct {
	current atomic.Pointer[Snapshot]
	items   Collection
	facets  FacetIndex
	loader  ReferenceLoader
	logger  *zap.Logger
}

// NewCatalog creates a catalog over a store-backed collection. facets may be nil.
func NewCatalog(items Collection, facets FacetIndex, loader ReferenceLoader, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{items: items, facets: facets, loader: loader, logger: logger}
}

// NewStaticCatalog publishes a fixed snapshot that is never reloaded.
func NewStaticCatalog(snap *Snapshot) *Catalog {
	c := &Catalog{logger: zap.NewNop()}
	c.current.Store(snap)
	return c
}

// Current returns the active snapshot.
func (c *Catalog) Current() (*Snapshot, error) {
	snap := c.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Reload reads fresh reference data and publishes a new snapshot.
// On failure the previous snapshot stays active.
func (c *Catalog) Reload(ctx context.Context) error {
	if c.loader == nil {
		return nil
	}
	ref, err := c.loader.LoadReference(ctx)
	if err != nil {
		metrics.SnapshotReloadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("load reference: %w", err)
	}
	c.current.Store(&Snapshot{
		Items:    c.items,
		Ref:      ref,
		Facets:   c.facets,
		LoadedAt: time.Now(),
	})
	metrics.SnapshotReloadsTotal.WithLabelValues("ok").Inc()
	metrics.SnapshotItems.Set(float64(len(ref.NameToIndex)))
	c.logger.Info("Catalog snapshot loaded",
		zap.Int("names", len(ref.NameToIndex)),
		zap.Int("item_sets", len(ref.ItemSets)),
		zap.Int("bundles", len(ref.Bundles)),
	)
	return nil
}

// Run reloads every interval until ctx is done. Failed reloads are logged
// and retried on the next tick.
func (c *Catalog) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Reload(ctx); err != nil {
				c.logger.Warn("Catalog reload failed, keeping previous snapshot", zap.Error(err))
			}
		}
	}
}

// HealthCheck reports whether a snapshot has been published.
func (c *Catalog) HealthCheck(context.Context) error {
	_, err := c.Current()
	return err
}
