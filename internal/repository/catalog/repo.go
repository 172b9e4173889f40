package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/itemdex/internal/db"
	"github.com/kailas-cloud/itemdex/internal/domain"
	"github.com/kailas-cloud/itemdex/internal/domain/item"
)

// store is the consumer interface for catalog data (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	SAdd(ctx context.Context, key string, members ...string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo reads and writes catalog reference data.
type Repo struct {
	store store
	keys  domain.Keys
}

// New creates a catalog repository.
func New(s store, keys domain.Keys) *Repo {
	return &Repo{store: s, keys: keys}
}

// LoadReference reads the name index, item sets and bundles. Missing keys
// yield empty data; an empty catalog is not an error.
func (r *Repo) LoadReference(ctx context.Context) (item.Reference, error) {
	names, err := r.store.HGetAll(ctx, r.keys.Names())
	if err != nil {
		return item.Reference{}, fmt.Errorf("hgetall %s: %w", r.keys.Names(), err)
	}
	ref := item.Reference{NameToIndex: make(map[string]int, len(names))}
	for name, raw := range names {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		ref.NameToIndex[name] = idx
	}

	if err := r.getJSON(ctx, r.keys.Sets(), &ref.ItemSets); err != nil {
		return item.Reference{}, err
	}
	if err := r.getJSON(ctx, r.keys.Bundles(), &ref.Bundles); err != nil {
		return item.Reference{}, err
	}
	return ref, nil
}

func (r *Repo) getJSON(ctx context.Context, key string, v any) error {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
