package search

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/domain/price"
	"github.com/kailas-cloud/itemdex/internal/domain/search/query"
	"github.com/kailas-cloud/itemdex/internal/domain/search/result"
	"github.com/kailas-cloud/itemdex/internal/logger"
)

// Ladder ratios are read from this rarity's market price.
const ratioRarity = "Unique"

// priceEpsilon absorbs float noise left after fraction snapping.
const priceEpsilon = 1e-9

// priceFilter keeps candidates whose price for the rarity satisfies the
// comparison. Candidates come from the embedded class/tag search when the
// query has facet words, flattened into one group in bucket order;
// otherwise from the whole collection.
func priceFilter(
	ctx context.Context, snap *Snapshot, f query.PriceFilter, source price.Source,
) ([]result.Group, error) {
	title := priceFilterTitle(f)

	var candidates []item.Record
	if len(f.Classes)+len(f.Tags) > 0 {
		q := item.FacetQuery{Classes: f.Classes, Tags: f.Tags}
		hits, err := facetHits(ctx, snap, q)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			candidates = append(candidates, h...)
		}
		title += " (" + facetTitle(q) + ")"
	} else {
		all, err := snap.Items.All(ctx)
		if err != nil {
			return nil, err
		}
		candidates = all
	}

	log := logger.FromContext(ctx)
	seen := map[string]bool{}
	var recs []item.Record
	for _, r := range candidates {
		sum, err := item.Summarize(ctx, r)
		if err != nil {
			return nil, err
		}
		p, ok := sum.Price(string(source), f.Rarity)
		if !ok || seen[sum.Name] {
			continue
		}
		if f.HasAmount {
			quote, err := price.ParseQuote(p)
			if err != nil {
				log.Debug("Skipping malformed price",
					zap.Int("index", sum.Index), zap.String("price", p), zap.Error(err))
				continue
			}
			if quote.Denomination != f.Denomination || !compareQuote(f.Op, quote, f.Amount) {
				continue
			}
		}
		seen[sum.Name] = true
		recs = append(recs, r)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return []result.Group{result.New(title, result.KindPrice, recs)}, nil
}

// compareQuote matches when either bound of the range satisfies op.
func compareQuote(op query.Op, q price.Quote, amount float64) bool {
	for _, v := range [...]float64{q.Low, q.High} {
		var ok bool
		switch op {
		case query.OpLess:
			ok = v < amount-priceEpsilon
		case query.OpGreater:
			ok = v > amount+priceEpsilon
		default:
			ok = math.Abs(v-amount) <= priceEpsilon
		}
		if ok {
			return true
		}
	}
	return false
}

// priceFilterTitle renders "Unique: > 1 Key", "Strange: 2 Refined" or "Vintage: Any".
func priceFilterTitle(f query.PriceFilter) string {
	if !f.HasAmount {
		return f.Rarity + ": Any"
	}
	amount := price.Format(f.Amount, f.Denomination)
	if f.Op == query.OpAny {
		return f.Rarity + ": " + amount
	}
	return f.Rarity + ": " + string(f.Op) + " " + amount
}

// priceViz breaks the amount into denomination items, one group per rung,
// each repeating the rung's item by its count. Only the first group is titled.
func priceViz(ctx context.Context, snap *Snapshot, v query.PriceViz, source price.Source) ([]result.Group, error) {
	table, err := ladderTable(ctx, snap, source)
	if err != nil {
		return nil, err
	}
	entries, err := table.Breakdown(v.Amount, v.From, v.To, v.HasTo)
	if err != nil {
		if errors.Is(err, price.ErrUnpriced) {
			logger.FromContext(ctx).Debug("Price breakdown unavailable", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	rungs, err := rungRecords(ctx, snap, entries)
	if err != nil {
		return nil, err
	}

	groups := make([]result.Group, len(entries))
	for i, e := range entries {
		rec := rungs[e.ItemIndex]
		recs := make([]item.Record, e.Count)
		for j := range recs {
			recs[j] = rec
		}
		title := ""
		if i == 0 {
			title = price.BreakdownTitle(v.Amount, v.From, entries)
		}
		groups[i] = result.New(title, result.KindPrice, recs)
	}
	return groups, nil
}

// rungRecords reads each distinct rung item once, in one batch. A rung item
// missing from the store falls back to a lazy record.
func rungRecords(ctx context.Context, snap *Snapshot, entries []price.Entry) (map[int]item.Record, error) {
	indexes := make([]int, 0, len(entries))
	for _, e := range entries {
		indexes = append(indexes, e.ItemIndex)
	}
	recs, err := snap.Items.Get(ctx, indexes)
	if err != nil {
		return nil, err
	}
	out := make(map[int]item.Record, len(entries))
	for _, r := range recs {
		out[r.Index()] = r
	}
	for _, idx := range indexes {
		if _, ok := out[idx]; !ok {
			out[idx] = snap.Items.Record(idx)
		}
	}
	return out, nil
}

// ladderTable builds the conversion table from the current market prices of
// the top rungs' items.
func ladderTable(ctx context.Context, snap *Snapshot, source price.Source) (*price.Table, error) {
	recs, err := snap.Items.Get(ctx, []int{price.Bud.ItemIndex(), price.Key.ItemIndex()})
	if err != nil {
		return nil, err
	}
	unique := make(map[int]string, len(recs))
	for _, r := range recs {
		sum, err := item.Summarize(ctx, r)
		if err != nil {
			return nil, err
		}
		if p, ok := sum.Price(string(source), ratioRarity); ok {
			unique[sum.Index] = p
		}
	}
	return price.NewTable(func(index int) (string, bool) {
		p, ok := unique[index]
		return p, ok
	}), nil
}
