package collection

import (
	"context"
	"sort"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
)

// Static is an in-memory collection, used offline and in tests.
type Static struct {
	byIndex map[int]*Fields
	order   []int
}

// NewStatic encodes items into an in-memory collection. A later item with
// a repeated index replaces the earlier one.
func NewStatic(items []item.Item) (*Static, error) {
	s := &Static{byIndex: make(map[int]*Fields, len(items))}
	for _, it := range items {
		f, err := FromItem(it)
		if err != nil {
			return nil, err
		}
		if _, dup := s.byIndex[it.Index]; !dup {
			s.order = append(s.order, it.Index)
		}
		s.byIndex[it.Index] = f
	}
	sort.Ints(s.order)
	return s, nil
}

// Len returns the number of items.
func (s *Static) Len() int { return len(s.order) }

// All returns every item ascending by index.
func (s *Static) All(context.Context) ([]item.Record, error) {
	out := make([]item.Record, len(s.order))
	for i, idx := range s.order {
		out[i] = s.byIndex[idx]
	}
	return out, nil
}

// Get returns the known items among indexes, in the given order.
func (s *Static) Get(_ context.Context, indexes []int) ([]item.Record, error) {
	out := make([]item.Record, 0, len(indexes))
	for _, idx := range indexes {
		if f, ok := s.byIndex[idx]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// Record returns one item; an unknown index yields a record with no fields.
func (s *Static) Record(index int) item.Record {
	if f, ok := s.byIndex[index]; ok {
		return f
	}
	return NewFields(index, nil)
}
