package search

import (
	"context"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
)

// Collection is the item collection searched by the engine.
type Collection interface {
	// All returns every item ascending by index, projected for search.
	All(ctx context.Context) ([]item.Record, error)
	// Get returns the known items among indexes in the given order.
	Get(ctx context.Context, indexes []int) ([]item.Record, error)
	// Record returns a lazy view of one item.
	Record(index int) item.Record
}

// FacetIndex returns precomputed class/tag search buckets.
type FacetIndex interface {
	Lookup(ctx context.Context, q item.FacetQuery) (item.Buckets, error)
}

// ReferenceLoader reads the name lookup, item sets and bundles.
type ReferenceLoader interface {
	LoadReference(ctx context.Context) (item.Reference, error)
}
