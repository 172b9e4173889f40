package search

import (
	"context"
	"sync"
	"testing"

	"github.com/kailas-cloud/itemdex/internal/domain"
	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/domain/price"
	"github.com/kailas-cloud/itemdex/internal/repository/collection"
)

// countingStore serves item hashes from memory and counts round trips.
type countingStore struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
	hget   int
	multi  int
}

func newCountingStore(t *testing.T, keys domain.Keys, items []item.Item) *countingStore {
	t.Helper()
	s := &countingStore{hashes: map[string]map[string]string{}}
	for i := range items {
		fields, err := items[i].Encode()
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		s.hashes[keys.Item(items[i].Index)] = fields
	}
	return s
}

func (s *countingStore) counts() (hget, multi int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hget, s.multi
}

func (s *countingStore) HGet(_ context.Context, key, field string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hget++
	return s.hashes[key][field], nil
}

func (s *countingStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	return s.hashes[key], nil
}

func (s *countingStore) HExists(_ context.Context, key, field string) (bool, error) {
	_, ok := s.hashes[key][field]
	return ok, nil
}

func (s *countingStore) SMembers(context.Context, string) ([]string, error) { return nil, nil }

func (s *countingStore) SIsMember(context.Context, string, string) (bool, error) {
	return false, nil
}

func (s *countingStore) SortGet(context.Context, string, []string) ([]*string, error) {
	return nil, nil
}

func (s *countingStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.multi++
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = s.hashes[k]
		if out[i] == nil {
			out[i] = map[string]string{}
		}
	}
	return out, nil
}

func ladderItems() []item.Item {
	return []item.Item{
		priced(newItem(price.Key.ItemIndex(), "Mann Co. Supply Crate Key", nil, []string{"tool"}), "Unique", "20 Refined"),
		newItem(price.Refined.ItemIndex(), "Refined Metal", nil, []string{"craft_item"}),
		newItem(price.Reclaimed.ItemIndex(), "Reclaimed Metal", nil, []string{"craft_item"}),
		newItem(price.Scrap.ItemIndex(), "Scrap Metal", nil, []string{"craft_item"}),
	}
}

func TestSearch_PriceVizReadsRungsOnce(t *testing.T) {
	keys := domain.NewKeys("t:")

	render := func(q string) (hget, multi, rendered int) {
		t.Helper()
		st := newCountingStore(t, keys, ladderItems())
		snap := &Snapshot{Items: collection.NewRemote(st, keys, collection.DefaultBufferSize)}
		groups := run(t, snap, q)
		if len(groups) == 0 {
			t.Fatalf("Search(%q) returned no groups", q)
		}

		ctx := context.Background()
		for _, g := range groups {
			for _, rec := range g.Items() {
				var name, image string
				if err := item.DecodeField(ctx, rec, item.FieldName, &name); err != nil {
					t.Fatalf("name of %d: %v", rec.Index(), err)
				}
				if err := item.DecodeField(ctx, rec, item.FieldImage, &image); err != nil {
					t.Fatalf("image of %d: %v", rec.Index(), err)
				}
				if name == "" || image == "" {
					t.Errorf("item %d rendered without name or image", rec.Index())
				}
				rendered++
			}
		}
		hget, multi = st.counts()
		return hget, multi, rendered
	}

	smallHGet, smallMulti, smallN := render("2 ref")
	largeHGet, largeMulti, largeN := render("1500 scrap")

	if largeN <= smallN {
		t.Fatalf("rendered %d then %d items, want the larger amount to render more", smallN, largeN)
	}
	if smallHGet != 0 || largeHGet != 0 {
		t.Errorf("per-field reads = %d, %d, want 0", smallHGet, largeHGet)
	}
	if largeMulti != smallMulti {
		t.Errorf("batched reads = %d for %d items, %d for %d items, want equal", smallMulti, smallN, largeMulti, largeN)
	}
}
