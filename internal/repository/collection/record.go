package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/itemdex/internal/db"
	"github.com/kailas-cloud/itemdex/internal/domain/item"
)

// hashReader is the consumer interface for per-item hash access (ISP).
type hashReader interface {
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HExists(ctx context.Context, key, field string) (bool, error)
}

// Hash is a lazy view of one stored item. Every Field call is one HGET.
type Hash struct {
	store hashReader
	key   string
	index int
}

// NewHash creates a view of the hash at key.
func NewHash(s hashReader, key string, index int) *Hash {
	return &Hash{store: s, key: key, index: index}
}

// Index returns the item index.
func (h *Hash) Index() int { return h.index }

// Field reads one field.
func (h *Hash) Field(ctx context.Context, name string) (string, bool, error) {
	v, err := h.store.HGet(ctx, h.key, name)
	if err != nil {
		if errors.Is(err, db.ErrFieldNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s of %s: %w", name, h.key, err)
	}
	return v, true, nil
}

// Contains reports whether the hash has field name.
func (h *Hash) Contains(ctx context.Context, name string) (bool, error) {
	ok, err := h.store.HExists(ctx, h.key, name)
	if err != nil {
		return false, fmt.Errorf("hexists %s: %w", h.key, err)
	}
	return ok, nil
}

// Load reads every field at once.
func (h *Hash) Load(ctx context.Context) (*Fields, error) {
	m, err := h.store.HGetAll(ctx, h.key)
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", h.key, err)
	}
	return NewFields(h.index, m), nil
}

// Fields is an item whose fields are already in memory.
type Fields struct {
	index  int
	values map[string]string
}

// NewFields wraps raw hash fields.
func NewFields(index int, values map[string]string) *Fields {
	return &Fields{index: index, values: values}
}

// FromItem encodes an item into an in-memory record.
func FromItem(it item.Item) (*Fields, error) {
	values, err := it.Encode()
	if err != nil {
		return nil, err
	}
	return NewFields(it.Index, values), nil
}

// Index returns the item index.
func (f *Fields) Index() int { return f.index }

// Field returns a field from memory.
func (f *Fields) Field(_ context.Context, name string) (string, bool, error) {
	v, ok := f.values[name]
	return v, ok, nil
}

// Item decodes the full item.
func (f *Fields) Item() (item.Item, error) {
	return item.Decode(f.values)
}

// Projected is an item with a fixed set of fields resolved in bulk.
// Fields outside the projection fall back to a per-field hash read.
type Projected struct {
	index     int
	projected map[string]*string
	fallback  *Hash
}

// Index returns the item index.
func (p *Projected) Index() int { return p.index }

// Field returns a projected value, or reads through to the hash.
func (p *Projected) Field(ctx context.Context, name string) (string, bool, error) {
	if v, ok := p.projected[name]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	return p.fallback.Field(ctx, name)
}

var (
	_ item.Record = (*Hash)(nil)
	_ item.Record = (*Fields)(nil)
	_ item.Record = (*Projected)(nil)
)
