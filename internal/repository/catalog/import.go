package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/itemdex/internal/db"
	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/logger"
)

// importBatch is how many item hashes are written per pipeline.
const importBatch = 500

// ImportStats summarizes an import.
type ImportStats struct {
	Items    int
	Valid    int
	ItemSets int
	Bundles  int
}

// Import replaces the stored catalog with d: stale item and index keys are
// removed, then item hashes, facet sets and reference keys are written.
func (r *Repo) Import(ctx context.Context, d Dump) (ImportStats, error) {
	log := logger.FromContext(ctx)
	items := d.Resolve()

	if err := r.clear(ctx); err != nil {
		return ImportStats{}, err
	}

	stats := ImportStats{Items: len(items), ItemSets: len(d.ItemSets), Bundles: len(d.Bundles)}
	members := make(map[string][]string)
	names := make(map[string]string, len(items))
	batch := make([]db.HashSetItem, 0, importBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.store.HSetMulti(ctx, batch); err != nil {
			return fmt.Errorf("write item hashes: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for i := range items {
		it := &items[i]
		fields, err := it.Encode()
		if err != nil {
			return ImportStats{}, err
		}
		batch = append(batch, db.HashSetItem{Key: r.keys.Item(it.Index), Fields: fields})
		if len(batch) == importBatch {
			if err := flush(); err != nil {
				return ImportStats{}, err
			}
		}

		s := item.Summary{Index: it.Index, Name: it.Name, Image: it.Image, Classes: it.Classes, Tags: it.Tags}
		id := strconv.Itoa(it.Index)
		for _, key := range r.keys.SetsFor(s) {
			members[key] = append(members[key], id)
		}
		if item.IsValidResult(it.Index, it.Name, it.Image, it.Tags, false) {
			stats.Valid++
		}
		if _, dup := names[it.Name]; !dup {
			names[it.Name] = id
		}
	}
	if err := flush(); err != nil {
		return ImportStats{}, err
	}

	for key, ids := range members {
		if err := r.store.SAdd(ctx, key, ids...); err != nil {
			return ImportStats{}, fmt.Errorf("write index set %s: %w", key, err)
		}
	}
	if len(names) > 0 {
		if err := r.store.HSetMulti(ctx, []db.HashSetItem{{Key: r.keys.Names(), Fields: names}}); err != nil {
			return ImportStats{}, fmt.Errorf("write name index: %w", err)
		}
	}
	if err := r.setJSON(ctx, r.keys.Sets(), nonNil(d.ItemSets)); err != nil {
		return ImportStats{}, err
	}
	if err := r.setJSON(ctx, r.keys.Bundles(), nonNil(d.Bundles)); err != nil {
		return ImportStats{}, err
	}

	log.Info("Catalog imported",
		zap.Int("items", stats.Items),
		zap.Int("valid", stats.Valid),
		zap.Int("item_sets", stats.ItemSets),
		zap.Int("bundles", stats.Bundles),
		zap.Int("index_sets", len(members)),
	)
	return stats, nil
}

func (r *Repo) clear(ctx context.Context) error {
	for _, pattern := range []string{r.keys.ItemPattern(), r.keys.AllItems() + "*"} {
		keys, err := r.store.Scan(ctx, pattern)
		if err != nil {
			return fmt.Errorf("scan %s: %w", pattern, err)
		}
		if err := r.store.Del(ctx, keys...); err != nil {
			return fmt.Errorf("delete stale keys: %w", err)
		}
	}
	return nil
}

func (r *Repo) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
