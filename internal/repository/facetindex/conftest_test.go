package facetindex

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"testing"

	"github.com/kailas-cloud/itemdex/internal/db"
	"github.com/kailas-cloud/itemdex/internal/domain"
	"github.com/kailas-cloud/itemdex/internal/domain/item"
)

var testKeys = domain.NewKeys("t:")

// fakeStore evaluates set algebra in memory.
type fakeStore struct {
	sets    map[string]map[string]bool
	lists   map[string][]string
	marks   map[string]bool
	ttls    map[string]int64
	execs   int
	execErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sets:  make(map[string]map[string]bool),
		lists: make(map[string][]string),
		marks: make(map[string]bool),
		ttls:  make(map[string]int64),
	}
}

func (f *fakeStore) sadd(key string, members ...string) {
	if f.sets[key] == nil {
		f.sets[key] = make(map[string]bool)
	}
	for _, m := range members {
		f.sets[key][m] = true
	}
}

func (f *fakeStore) Exists(_ context.Context, keys ...string) (bool, error) {
	for _, k := range keys {
		if len(f.sets[k]) > 0 || len(f.lists[k]) > 0 || f.marks[k] {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) LRange(_ context.Context, key string) ([]string, error) {
	return f.lists[key], nil
}

func (f *fakeStore) ExecSetOps(_ context.Context, ops []db.SetOp) error {
	if f.execErr != nil {
		return f.execErr
	}
	f.execs++
	for _, op := range ops {
		switch op.Kind {
		case db.OpKindUnion:
			out := make(map[string]bool)
			for _, k := range op.Keys {
				for m := range f.sets[k] {
					out[m] = true
				}
			}
			f.store(op.Dest, out)
		case db.OpKindInter:
			out := make(map[string]bool)
			for m := range f.sets[op.Keys[0]] {
				in := true
				for _, k := range op.Keys[1:] {
					if !f.sets[k][m] {
						in = false
						break
					}
				}
				if in {
					out[m] = true
				}
			}
			f.store(op.Dest, out)
		case db.OpKindDiff:
			out := make(map[string]bool)
			for m := range f.sets[op.Keys[0]] {
				out[m] = true
			}
			for _, k := range op.Keys[1:] {
				for m := range f.sets[k] {
					delete(out, m)
				}
			}
			f.store(op.Dest, out)
		case db.OpKindSortStore:
			members := make([]int, 0, len(f.sets[op.Keys[0]]))
			for m := range f.sets[op.Keys[0]] {
				n, _ := strconv.Atoi(m)
				members = append(members, n)
			}
			sort.Ints(members)
			delete(f.lists, op.Dest)
			for _, n := range members {
				f.lists[op.Dest] = append(f.lists[op.Dest], strconv.Itoa(n))
			}
		case db.OpKindExpire:
			f.ttls[op.Dest] = int64(op.TTL.Seconds())
		case db.OpKindMark:
			f.marks[op.Dest] = true
			f.ttls[op.Dest] = int64(op.TTL.Seconds())
		case db.OpKindDelete:
			for _, k := range op.Keys {
				delete(f.sets, k)
				delete(f.lists, k)
				delete(f.marks, k)
			}
		default:
			return fmt.Errorf("unexpected op kind %d", op.Kind)
		}
	}
	return nil
}

func (f *fakeStore) store(dest string, members map[string]bool) {
	if len(members) == 0 {
		delete(f.sets, dest)
		return
	}
	f.sets[dest] = members
}

// populate writes the facet sets of items the way the importer does.
func populate(t *testing.T, f *fakeStore, items []item.Summary) {
	t.Helper()
	for _, s := range items {
		for _, key := range testKeys.SetsFor(s) {
			f.sadd(key, strconv.Itoa(s.Index))
		}
	}
}

func summary(index int, name string, classes, tags []string) item.Summary {
	return item.Summary{Index: index, Name: name, Image: "img.png", Classes: classes, Tags: tags}
}

// fixture covers single, multi and all-class items, slot tokens, medals,
// obsolete indexes and items without images.
func fixture() []item.Summary {
	noImage := summary(40, "Invisible Hat", []string{"Spy"}, []string{"hat"})
	noImage.Image = ""
	return []item.Summary{
		summary(1, "Engineer Hat", []string{"Engineer"}, []string{"hat"}),
		summary(2, "Shared Hat", []string{"Engineer", "Soldier"}, []string{"hat"}),
		summary(3, "Party Hat", nil, []string{"hat"}),
		summary(4, "Wrench", []string{"Engineer"}, []string{"melee", "weapon"}),
		summary(5, "Shovel", []string{"Soldier", "Demoman"}, []string{"melee", "weapon"}),
		summary(6, "Pan", nil, []string{"melee", "weapon"}),
		summary(7, "Melee Token", []string{"Engineer"}, []string{"melee", "token"}),
		summary(8, "Odd Token", nil, []string{"melee", "weapon", "token"}),
		summary(9, "Gold Medal", nil, []string{"tournament", "misc"}),
		summary(10, "Shotgun", []string{"Engineer", "Soldier"}, []string{"secondary", "weapon"}),
		summary(11, "Soldier Medal", []string{"Soldier"}, []string{"tournament", "misc"}),
		summary(12, "Scarf", []string{"Spy"}, []string{"misc"}),
		summary(2020, "Obsolete Hat", []string{"Engineer"}, []string{"hat"}),
		noImage,
		summary(41, "TF_Bundle_Junk", nil, []string{"bundle"}),
	}
}

// expected applies item.FacetQuery in memory.
func expected(items []item.Summary, q item.FacetQuery) item.Buckets {
	var b item.Buckets
	for _, s := range items {
		if !q.Matches(s) {
			continue
		}
		b.Add(item.BucketOf(s.Classes), s.Index)
	}
	sort.Ints(b.Single)
	sort.Ints(b.Multi)
	sort.Ints(b.All)
	return b
}
