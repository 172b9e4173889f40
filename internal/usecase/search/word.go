package search

import (
	"context"
	"sort"
	"strings"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/domain/search/query"
	"github.com/kailas-cloud/itemdex/internal/domain/search/result"
)

// minSubstringQuery is the shortest query matched as a substring of names.
const minSubstringQuery = 3

type rankedHit struct {
	rec  item.Record
	rank int
}

// wordSearch matches names sharing a token (or its plural) with the query,
// or containing the query. Item sets whose names share a token follow as
// extra groups.
func wordSearch(ctx context.Context, snap *Snapshot, tokens []string, m query.Word) ([]result.Group, error) {
	wanted := make(map[string]bool, 2*len(tokens))
	for _, t := range tokens {
		wanted[t] = true
		wanted[t+"s"] = true
	}

	all, err := snap.Items.All(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var hits []rankedHit
	for _, r := range all {
		sum, err := item.Summarize(ctx, r)
		if err != nil {
			return nil, err
		}
		name := item.Fold(sum.Name)
		lower := strings.ToLower(name)
		nameTokens := query.Tokenize(name)

		wordMatch := false
		for _, nt := range nameTokens {
			if wanted[nt] {
				wordMatch = true
				break
			}
		}
		substring := len(m.Query) >= minSubstringQuery && strings.Contains(lower, m.Query)
		if !wordMatch && !substring {
			continue
		}
		if !item.IsValidResult(sum.Index, sum.Name, sum.Image, sum.Tags, false) || seen[name] {
			continue
		}
		seen[name] = true
		hits = append(hits, rankedHit{rec: r, rank: wordRank(tokens, nameTokens, lower, m.Query)})
	}

	var groups []result.Group
	if len(hits) > 0 {
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].rank > hits[j].rank })
		recs := make([]item.Record, len(hits))
		for i, h := range hits {
			recs[i] = h.rec
		}
		groups = append(groups, result.New("", result.KindPlain, recs))
	}

	sets, err := matchingSets(ctx, snap, tokens)
	if err != nil {
		return nil, err
	}
	return append(groups, sets...), nil
}

// wordRank orders word hits, higher first: the number of query tokens in the
// name, or else the negated position of the query in the name so earlier
// substring hits come first. Plural-only hits rank like one shared token.
func wordRank(tokens, nameTokens []string, lowerName, q string) int {
	shared := 0
	for _, t := range uniqueStrings(tokens) {
		for _, nt := range nameTokens {
			if t == nt {
				shared++
				break
			}
		}
	}
	if shared > 0 {
		return shared
	}
	pos := strings.Index(lowerName, q)
	if pos < 0 {
		return 1
	}
	return -pos
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// exactSearch lists names containing the quoted phrase, earliest position first.
func exactSearch(ctx context.Context, snap *Snapshot, m query.Exact) ([]result.Group, error) {
	all, err := snap.Items.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var hits []rankedHit
	for _, r := range all {
		sum, err := item.Summarize(ctx, r)
		if err != nil {
			return nil, err
		}
		name := item.Fold(sum.Name)
		pos := strings.Index(strings.ToLower(name), m.Phrase)
		if pos < 0 || seen[name] || !item.IsValidResult(sum.Index, sum.Name, sum.Image, sum.Tags, false) {
			continue
		}
		seen[name] = true
		hits = append(hits, rankedHit{rec: r, rank: -pos})
	}
	if len(hits) == 0 {
		return nil, nil
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].rank > hits[j].rank })
	recs := make([]item.Record, len(hits))
	for i, h := range hits {
		recs[i] = h.rec
	}
	return []result.Group{result.New("", result.KindPlain, recs)}, nil
}
