package search

import (
	"context"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/domain/search/query"
	"github.com/kailas-cloud/itemdex/internal/domain/search/result"
)

// itemSetSearch resolves "<name> set": a bundle with that name wins over an
// item set.
func itemSetSearch(ctx context.Context, snap *Snapshot, m query.ItemSet) ([]result.Group, error) {
	if b, ok := snap.Ref.FindBundle(m.Name); ok {
		g, ok, err := bundleGroup(ctx, snap, b)
		if err != nil || !ok {
			return nil, err
		}
		return []result.Group{g}, nil
	}
	if set, ok := snap.Ref.FindItemSet(m.Name); ok {
		g, ok, err := setGroup(ctx, snap, set)
		if err != nil || !ok {
			return nil, err
		}
		return []result.Group{g}, nil
	}
	return nil, nil
}

// allSets lists every item set with resolvable members, in catalog order.
func allSets(ctx context.Context, snap *Snapshot) ([]result.Group, error) {
	var groups []result.Group
	for i := range snap.Ref.ItemSets {
		g, ok, err := setGroup(ctx, snap, &snap.Ref.ItemSets[i])
		if err != nil {
			return nil, err
		}
		if ok {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// matchingSets lists item sets whose names share a token with the query.
func matchingSets(ctx context.Context, snap *Snapshot, tokens []string) ([]result.Group, error) {
	wanted := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		wanted[t] = true
	}
	var groups []result.Group
	for i := range snap.Ref.ItemSets {
		set := &snap.Ref.ItemSets[i]
		match := false
		for _, t := range query.Tokenize(set.Name) {
			if wanted[t] {
				match = true
				break
			}
		}
		if !match {
			continue
		}
		g, ok, err := setGroup(ctx, snap, set)
		if err != nil {
			return nil, err
		}
		if ok {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// setGroup resolves set members through the name lookup. Members that do not
// resolve are skipped; ok is false when none do.
func setGroup(ctx context.Context, snap *Snapshot, set *item.ItemSet) (result.Group, bool, error) {
	names := make([]string, len(set.Items))
	for i, n := range set.Items {
		names[i] = item.CanonicalMemberName(n)
	}
	recs, err := resolveNames(ctx, snap, names)
	if err != nil || len(recs) == 0 {
		return result.Group{}, false, err
	}
	return result.New(set.Name, result.KindSet, recs), true, nil
}

// bundleGroup resolves the item lines of a bundle; its text lines become notes.
func bundleGroup(ctx context.Context, snap *Snapshot, b *item.Bundle) (result.Group, bool, error) {
	recs, err := resolveNames(ctx, snap, b.ItemNames())
	if err != nil || len(recs) == 0 {
		return result.Group{}, false, err
	}
	return result.New(b.Name, result.KindBundle, recs).WithNotes(b.TextLines()), true, nil
}

func resolveNames(ctx context.Context, snap *Snapshot, names []string) ([]item.Record, error) {
	indexes := make([]int, 0, len(names))
	for _, n := range names {
		if idx, ok := snap.Ref.Lookup(n); ok {
			indexes = append(indexes, idx)
		}
	}
	if len(indexes) == 0 {
		return nil, nil
	}
	recs, err := snap.Items.Get(ctx, indexes)
	if err != nil {
		return nil, err
	}
	return uniqueNames(ctx, recs, map[string]bool{})
}
