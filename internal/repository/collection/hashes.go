package collection

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/itemdex/internal/domain"
)

// DefaultBufferSize is how many hashes Hashes reads per round trip.
const DefaultBufferSize = 100

// maxPrefetch bounds concurrent chunk reads in All.
const maxPrefetch = 4

// multiReader is the consumer interface for batched hash reads.
type multiReader interface {
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Hashes reads a list of item hashes in chunks, one round trip per chunk,
// preserving the input order. Indexes without a stored hash are skipped.
type Hashes struct {
	store   multiReader
	keys    domain.Keys
	indexes []int
	bufSize int
}

// NewHashes creates a buffered reader. bufSize <= 0 uses DefaultBufferSize.
func NewHashes(s multiReader, keys domain.Keys, indexes []int, bufSize int) *Hashes {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Hashes{store: s, keys: keys, indexes: indexes, bufSize: bufSize}
}

// Len returns the number of requested indexes.
func (h *Hashes) Len() int { return len(h.indexes) }

// Each calls fn for every stored item in order, fetching one chunk at a time.
// It stops at the first error from the store or from fn.
func (h *Hashes) Each(ctx context.Context, fn func(*Fields) error) error {
	for start := 0; start < len(h.indexes); start += h.bufSize {
		chunk, err := h.fetch(ctx, h.chunk(start))
		if err != nil {
			return err
		}
		for _, f := range chunk {
			if err := fn(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// All fetches every chunk, up to maxPrefetch at a time, and returns the
// stored items in input order.
func (h *Hashes) All(ctx context.Context) ([]*Fields, error) {
	nChunks := (len(h.indexes) + h.bufSize - 1) / h.bufSize
	chunks := make([][]*Fields, nChunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPrefetch)
	for c := 0; c < nChunks; c++ {
		g.Go(func() error {
			res, err := h.fetch(gctx, h.chunk(c*h.bufSize))
			if err != nil {
				return err
			}
			chunks[c] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*Fields, 0, len(h.indexes))
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out, nil
}

func (h *Hashes) chunk(start int) []int {
	end := start + h.bufSize
	if end > len(h.indexes) {
		end = len(h.indexes)
	}
	return h.indexes[start:end]
}

func (h *Hashes) fetch(ctx context.Context, indexes []int) ([]*Fields, error) {
	keys := make([]string, len(indexes))
	for i, idx := range indexes {
		keys[i] = h.keys.Item(idx)
	}
	maps, err := h.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read %d item hashes: %w", len(keys), err)
	}
	if len(maps) != len(keys) {
		return nil, fmt.Errorf("read %d item hashes: got %d replies", len(keys), len(maps))
	}
	out := make([]*Fields, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out = append(out, NewFields(indexes[i], m))
	}
	return out, nil
}
