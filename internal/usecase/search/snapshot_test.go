package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/domain/price"
)

func TestCatalog_NotLoaded(t *testing.T) {
	c := NewCatalog(failingCollection{}, nil, &fakeLoader{}, nil)
	if _, err := c.Current(); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Current err = %v", err)
	}
	if _, err := New(c).Search(context.Background(), "bat", price.DefaultSource); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Search err = %v", err)
	}
}

func TestCatalog_ReloadPublishesAndKeepsPrevious(t *testing.T) {
	loader := &fakeLoader{ref: item.Reference{NameToIndex: map[string]int{"Bat": 30}}}
	facets := &fakeFacets{}
	c := NewCatalog(failingCollection{}, facets, loader, nil)
	ctx := context.Background()

	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	first, err := c.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if idx, ok := first.Ref.Lookup("Bat"); !ok || idx != 30 {
		t.Errorf("Lookup(Bat) = %d, %v", idx, ok)
	}
	if first.Facets != facets || first.LoadedAt.IsZero() {
		t.Errorf("snapshot = %+v", first)
	}

	loader.err = errors.New("store down")
	if err := c.Reload(ctx); err == nil {
		t.Fatal("expected reload error")
	}
	if cur, _ := c.Current(); cur != first {
		t.Error("failed reload replaced the snapshot")
	}

	loader.err = nil
	loader.ref = item.Reference{NameToIndex: map[string]int{"Bat": 31}}
	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	// a search holding the old snapshot keeps seeing it
	if idx, _ := first.Ref.Lookup("Bat"); idx != 30 {
		t.Errorf("old snapshot mutated: %d", idx)
	}
	if cur, _ := c.Current(); cur == first {
		t.Error("reload did not publish a new snapshot")
	}
}

func TestCatalog_RunStopsOnCancel(t *testing.T) {
	c := NewCatalog(failingCollection{}, nil, &fakeLoader{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if _, err := c.Current(); err == nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Run never reloaded")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestStaticCatalog(t *testing.T) {
	snap := staticSnapshot(t, wordItems(), wordRef())
	c := NewStaticCatalog(snap)
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if cur, _ := c.Current(); cur != snap {
		t.Error("static catalog changed snapshot")
	}
}
