package search

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/domain/search/result"
)

// Titles of the multi-class and all-class buckets.
const (
	multiClassTitle = "Multi-Class Items"
	allClassTitle   = "All-Class Items"
)

var bucketOrder = [...]item.Bucket{item.BucketSingle, item.BucketMulti, item.BucketAll}

// tagLabels overrides the title-cased label of tags that are acronyms.
var tagLabels = map[string]string{"pda": "PDA", item.TagPDA2: "PDA2"}

// countableTags read as plural nouns in a title ("Hats"); other tags get "Items".
var countableTags = map[string]bool{
	"hat": true, item.TagWeapon: true, "tool": true, "taunt": true,
	"paint": true, item.TagToken: true, item.TagBundle: true,
}

// classTagSearch returns up to three groups: single-class hits, multi-class
// hits and all-class hits. Names are unique across the groups; the first
// occurrence wins, visiting buckets in that order and each by ascending index.
func classTagSearch(ctx context.Context, snap *Snapshot, q item.FacetQuery) ([]result.Group, error) {
	hits, err := facetHits(ctx, snap, q)
	if err != nil {
		return nil, err
	}
	titles := [...]string{facetTitle(q), multiClassTitle, allClassTitle}

	var groups []result.Group
	for i, recs := range hits {
		if len(recs) == 0 {
			continue
		}
		groups = append(groups, result.New(titles[i], result.KindClassTag, recs))
	}
	return groups, nil
}

// facetHits returns the de-duplicated hits of q per bucket, from the facet
// index when the snapshot has one.
func facetHits(ctx context.Context, snap *Snapshot, q item.FacetQuery) ([3][]item.Record, error) {
	var hits [3][]item.Record
	var err error
	if snap.Facets != nil {
		hits, err = cachedHits(ctx, snap, q)
	} else {
		hits, err = scanHits(ctx, snap, q)
	}
	if err != nil {
		return hits, err
	}

	seen := map[string]bool{}
	for i := range hits {
		if hits[i], err = uniqueNames(ctx, hits[i], seen); err != nil {
			return hits, err
		}
	}
	return hits, nil
}

func cachedHits(ctx context.Context, snap *Snapshot, q item.FacetQuery) ([3][]item.Record, error) {
	var hits [3][]item.Record
	buckets, err := snap.Facets.Lookup(ctx, q)
	if err != nil {
		return hits, err
	}
	for i, b := range bucketOrder {
		if hits[i], err = snap.Items.Get(ctx, buckets.Get(b)); err != nil {
			return hits, err
		}
	}
	return hits, nil
}

func scanHits(ctx context.Context, snap *Snapshot, q item.FacetQuery) ([3][]item.Record, error) {
	var hits [3][]item.Record
	all, err := snap.Items.All(ctx)
	if err != nil {
		return hits, err
	}
	for _, r := range all {
		sum, err := item.Summarize(ctx, r)
		if err != nil {
			return hits, err
		}
		if !q.Matches(sum) {
			continue
		}
		b := item.BucketOf(sum.Classes)
		hits[b] = append(hits[b], r)
	}
	return hits, nil
}

// facetTitle names the single-class group, e.g. "Engineer Hats",
// "Scout Items" or "Soldier & Demoman Primary Weapons".
func facetTitle(q item.FacetQuery) string {
	words := make([]string, 0, len(q.Tags)+2)
	if len(q.Classes) > 0 {
		words = append(words, strings.Join(q.Classes, " & "))
	}
	// Countable tags go last so they can take the plural: "Primary Weapons".
	tags := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		if !countableTags[t] {
			tags = append(tags, t)
		}
	}
	for _, t := range q.Tags {
		if countableTags[t] {
			tags = append(tags, t)
		}
	}

	caser := cases.Title(language.English)
	for _, t := range tags {
		label, ok := tagLabels[t]
		if !ok {
			label = caser.String(t)
		}
		words = append(words, label)
	}

	n := len(tags)
	if n > 0 && countableTags[tags[n-1]] {
		words[len(words)-1] += "s"
	} else {
		words = append(words, "Items")
	}
	return strings.Join(words, " ")
}
