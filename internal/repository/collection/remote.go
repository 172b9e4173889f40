package collection

import (
	"context"

	"github.com/kailas-cloud/itemdex/internal/domain"
	"github.com/kailas-cloud/itemdex/internal/domain/item"
)

// store is the consumer interface for the store-backed collection (ISP).
type store interface {
	hashReader
	setReader
	projector
	multiReader
}

// Remote is the item collection held in the backing store.
type Remote struct {
	store   store
	keys    domain.Keys
	bufSize int
}

// NewRemote creates a store-backed collection. bufSize bounds how many
// hashes are read per round trip.
func NewRemote(s store, keys domain.Keys, bufSize int) *Remote {
	return &Remote{store: s, keys: keys, bufSize: bufSize}
}

// Set returns a lazy view of an index set.
func (r *Remote) Set(key string) *HashSet {
	return NewHashSet(r.store, r.store, r.keys, key)
}

// All returns every item with the search projection, ascending by index.
func (r *Remote) All(ctx context.Context) ([]item.Record, error) {
	set := NewSearchHashSet(r.Set(r.keys.AllItems()), r.store, item.SearchFields)
	projected, err := set.Records(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]item.Record, len(projected))
	for i, p := range projected {
		out[i] = p
	}
	return out, nil
}

// Get returns the stored items among indexes, in the given order.
func (r *Remote) Get(ctx context.Context, indexes []int) ([]item.Record, error) {
	fields, err := NewHashes(r.store, r.keys, indexes, r.bufSize).All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]item.Record, len(fields))
	for i, f := range fields {
		out[i] = f
	}
	return out, nil
}

// Record returns a lazy view of one item without touching the store.
func (r *Remote) Record(index int) item.Record {
	return NewHash(r.store, r.keys.Item(index), index)
}
