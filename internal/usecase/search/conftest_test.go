package search

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/domain/price"
	"github.com/kailas-cloud/itemdex/internal/domain/search/result"
	"github.com/kailas-cloud/itemdex/internal/repository/collection"
)

var source = string(price.DefaultSource)

// --- Fixtures ---

func newItem(index int, name string, classes, tags []string) item.Item {
	return item.Item{
		Index:   index,
		Name:    name,
		Image:   "img/" + name + ".png",
		Classes: classes,
		Tags:    tags,
	}
}

func priced(it item.Item, rarity, p string) item.Item {
	if it.MarketPrice == nil {
		it.MarketPrice = item.MarketPrices{}
	}
	if it.MarketPrice[source] == nil {
		it.MarketPrice[source] = map[string]string{}
	}
	it.MarketPrice[source][rarity] = p
	return it
}

func staticSnapshot(t *testing.T, items []item.Item, ref item.Reference) *Snapshot {
	t.Helper()
	col, err := collection.NewStatic(items)
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	return &Snapshot{Items: col, Ref: ref}
}

func run(t *testing.T, snap *Snapshot, q string) []result.Group {
	t.Helper()
	groups, err := New(NewStaticCatalog(snap)).Search(context.Background(), q, price.DefaultSource)
	if err != nil {
		t.Fatalf("Search(%q): %v", q, err)
	}
	return groups
}

func indexes(g result.Group) []int {
	out := make([]int, 0, g.Len())
	for _, r := range g.Items() {
		out = append(out, r.Index())
	}
	return out
}

type groupView struct {
	Title   string
	Kind    result.Kind
	Indexes []int
}

func views(groups []result.Group) []groupView {
	out := make([]groupView, len(groups))
	for i, g := range groups {
		out[i] = groupView{Title: g.Title(), Kind: g.Kind(), Indexes: indexes(g)}
	}
	return out
}

// --- Fakes ---

// fakeFacets answers facet lookups the way the store-side index does:
// matching indexes per bucket, ascending.
type fakeFacets struct {
	items []item.Item
	calls int
}

func (f *fakeFacets) Lookup(_ context.Context, q item.FacetQuery) (item.Buckets, error) {
	f.calls++
	sorted := append([]item.Item(nil), f.items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	var b item.Buckets
	for _, it := range sorted {
		s := item.Summary{Index: it.Index, Name: it.Name, Image: it.Image, Classes: it.Classes, Tags: it.Tags}
		if q.Matches(s) {
			b.Add(item.BucketOf(it.Classes), it.Index)
		}
	}
	return b, nil
}

var errStoreDown = errors.New("store down")

// failingCollection fails every read.
type failingCollection struct{}

func (failingCollection) All(context.Context) ([]item.Record, error) { return nil, errStoreDown }

func (failingCollection) Get(context.Context, []int) ([]item.Record, error) {
	return nil, errStoreDown
}

func (failingCollection) Record(int) item.Record { return nil }

type fakeLoader struct {
	ref item.Reference
	err error
}

func (l *fakeLoader) LoadReference(context.Context) (item.Reference, error) {
	return l.ref, l.err
}
