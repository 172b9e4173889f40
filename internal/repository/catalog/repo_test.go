package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/kailas-cloud/itemdex/internal/db"
)

// --- LoadReference ---

func TestLoadReference_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "t:items:names" {
			t.Errorf("unexpected key: %s", key)
		}
		return map[string]string{"Bat": "0", "Broken": "x"}, nil
	}
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		switch key {
		case "t:items:sets":
			return []byte(`[{"name":"The Camp Fire","items":["Bat"]}]`), nil
		case "t:items:bundles":
			return []byte(`[{"index":9,"name":"Starter","lines":[{"text":"Bat","is_item":true}]}]`), nil
		}
		return nil, db.ErrKeyNotFound
	}

	ref, err := repo.LoadReference(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx, ok := ref.Lookup("Bat"); !ok || idx != 0 {
		t.Errorf("Lookup(Bat) = %d, %v", idx, ok)
	}
	if _, ok := ref.Lookup("Broken"); ok {
		t.Error("non-numeric index must be skipped")
	}
	if len(ref.ItemSets) != 1 || len(ref.Bundles) != 1 {
		t.Fatalf("sets=%d bundles=%d", len(ref.ItemSets), len(ref.Bundles))
	}
	if _, ok := ref.FindItemSet("the camp fire"); !ok {
		t.Error("FindItemSet must ignore case")
	}
}

func TestLoadReference_EmptyCatalog(t *testing.T) {
	repo, _ := newTestRepo(t)
	ref, err := repo.LoadReference(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ref.NameToIndex) != 0 || ref.ItemSets != nil || ref.Bundles != nil {
		t.Errorf("expected empty reference, got %+v", ref)
	}
}

func TestLoadReference_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(context.Context, string) ([]byte, error) {
		return nil, &db.Error{Op: db.OpGet, Err: errors.New("connection refused")}
	}
	_, err := repo.LoadReference(context.Background())
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestLoadReference_MalformedJSON(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte("{"), nil }
	if _, err := repo.LoadReference(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

// --- Import ---

const testDump = `{
  "items": [
    {"index": 5001, "name": "Reclaimed Metal", "image": "rec.png", "classes": [], "tags": ["craft"]},
    {"index": 30, "name": "Engi Hat", "image": "h.png", "classes": ["Engineer"], "tags": ["hat"],
     "blueprints": [{"chance": 100, "required": ["Reclaimed Metal", "Reclaimed Metal", "Class Token"]}]},
    {"index": 31, "name": "Shared Hat", "image": "s.png", "classes": ["Engineer", "Soldier"], "tags": ["hat"]},
    {"index": 2020, "name": "Old Hat", "image": "o.png", "classes": [], "tags": ["hat"]}
  ],
  "item_sets": [{"name": "Hat Set", "items": ["Engi Hat", "Shared Hat"]}]
}`

func TestImport_WritesLayout(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	d, err := ReadDump(strings.NewReader(testDump))
	if err != nil {
		t.Fatalf("ReadDump: %v", err)
	}

	hashes := map[string]map[string]string{}
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		for _, it := range items {
			hashes[it.Key] = it.Fields
		}
		return nil
	}
	sets := map[string][]string{}
	ms.saddFn = func(_ context.Context, key string, members ...string) error {
		sets[key] = append(sets[key], members...)
		return nil
	}
	values := map[string]string{}
	ms.setFn = func(_ context.Context, key string, value []byte) error {
		values[key] = string(value)
		return nil
	}
	var scanned []string
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		scanned = append(scanned, pattern)
		return []string{"stale"}, nil
	}

	stats, err := repo.Import(ctx, d)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Items != 4 || stats.Valid != 3 || stats.ItemSets != 1 || stats.Bundles != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if len(scanned) != 2 || scanned[0] != "t:item:*" || scanned[1] != "t:items*" {
		t.Errorf("scanned = %v", scanned)
	}

	hat := hashes["t:item:30"]
	if hat["name"] != `"Engi Hat"` {
		t.Errorf("name field = %s", hat["name"])
	}
	if !strings.Contains(hat["blueprints"], `"count":2`) || !strings.Contains(hat["blueprints"], `"index":5001`) {
		t.Errorf("blueprints not resolved: %s", hat["blueprints"])
	}
	if hashes["t:items:names"]["Shared Hat"] != "31" {
		t.Errorf("names hash = %v", hashes["t:items:names"])
	}

	checkSet := func(key string, want ...string) {
		t.Helper()
		got := append([]string(nil), sets[key]...)
		sort.Strings(got)
		sort.Strings(want)
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("%s = %v, want %v", key, got, want)
		}
	}
	checkSet("t:items", "5001", "30", "31", "2020")
	checkSet("t:items:valid", "5001", "30", "31")
	checkSet("t:items:class:Engineer", "30", "31")
	checkSet("t:items:class:multi", "31")
	checkSet("t:items:class:none", "5001", "2020")
	checkSet("t:items:tag:hat", "30", "31", "2020")

	if values["t:items:bundles"] != "[]" {
		t.Errorf("bundles = %s", values["t:items:bundles"])
	}
	if !strings.Contains(values["t:items:sets"], "Hat Set") {
		t.Errorf("sets = %s", values["t:items:sets"])
	}
}

func TestImport_WriteError(t *testing.T) {
	repo, ms := newTestRepo(t)
	d, err := ReadDump(strings.NewReader(testDump))
	if err != nil {
		t.Fatalf("ReadDump: %v", err)
	}
	ms.hsetMultiFn = func(context.Context, []db.HashSetItem) error {
		return &db.Error{Op: db.OpHSet, Err: errors.New("OOM")}
	}
	if _, err := repo.Import(context.Background(), d); err == nil {
		t.Fatal("expected error")
	}
}

func TestReadDump_Malformed(t *testing.T) {
	if _, err := ReadDump(strings.NewReader("[")); err == nil {
		t.Fatal("expected error")
	}
}

func TestDumpReference(t *testing.T) {
	d, err := ReadDump(strings.NewReader(`{
		"items": [
			{"index": 30, "name": "Bat", "image": "bat.png"},
			{"index": 190, "name": "Bat", "image": "bat.png"},
			{"index": 5021, "name": "Mann Co. Supply Crate Key", "image": "key.png"}
		],
		"item_sets": [{"name": "The Camp Fire", "items": ["Bat"]}]
	}`))
	if err != nil {
		t.Fatalf("ReadDump: %v", err)
	}

	ref := d.Reference()
	if idx, ok := ref.Lookup("Bat"); !ok || idx != 30 {
		t.Errorf("Lookup(Bat) = %d, %v", idx, ok)
	}
	if idx, ok := ref.Lookup("Mann Co. Supply Crate Key"); !ok || idx != 5021 {
		t.Errorf("Lookup(key) = %d, %v", idx, ok)
	}
	if len(ref.ItemSets) != 1 || len(ref.Bundles) != 0 {
		t.Errorf("ref = %+v", ref)
	}
}
