package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/domain/price"
	"github.com/kailas-cloud/itemdex/internal/domain/search/query"
	"github.com/kailas-cloud/itemdex/internal/domain/search/result"
	"github.com/kailas-cloud/itemdex/internal/logger"
	"github.com/kailas-cloud/itemdex/internal/metrics"
)

// Service classifies queries and runs the matching strategy over the
// active catalog snapshot.
type Service struct {
	catalog *Catalog
}

// New creates a search service.
func New(catalog *Catalog) *Service {
	return &Service{catalog: catalog}
}

// Search runs raw against the current snapshot. Prices are read from source.
func (s *Service) Search(ctx context.Context, raw string, source price.Source) ([]result.Group, error) {
	snap, err := s.catalog.Current()
	if err != nil {
		return nil, err
	}
	return s.SearchSnapshot(ctx, snap, raw, source)
}

// SearchSnapshot runs raw against snap. Queries that match nothing return
// an empty list, not an error. Store errors are returned unchanged.
func (s *Service) SearchSnapshot(
	ctx context.Context, snap *Snapshot, raw string, source price.Source,
) ([]result.Group, error) {
	in := query.Classify(raw)
	m := string(in.Mode())

	start := time.Now()
	groups, err := s.dispatch(ctx, snap, in, source)
	metrics.SearchDuration.WithLabelValues(m).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(m, "error").Inc()
		return nil, fmt.Errorf("%s search: %w", m, err)
	}
	metrics.SearchRequestsTotal.WithLabelValues(m, "ok").Inc()

	total := 0
	for i := range groups {
		total += groups[i].Len()
	}
	metrics.SearchResultItems.WithLabelValues(m).Observe(float64(total))
	logger.FromContext(ctx).Debug("Search executed",
		zap.String("query", raw),
		zap.String("mode", m),
		zap.Int("groups", len(groups)),
		zap.Int("items", total),
	)
	return groups, nil
}

func (s *Service) dispatch(
	ctx context.Context, snap *Snapshot, in query.Intent, source price.Source,
) ([]result.Group, error) {
	switch m := in.Match.(type) {
	case nil, query.Empty:
		return nil, nil
	case query.Exact:
		return exactSearch(ctx, snap, m)
	case query.ItemSet:
		return itemSetSearch(ctx, snap, m)
	case query.PriceFilter:
		return priceFilter(ctx, snap, m, source)
	case query.PriceViz:
		return priceViz(ctx, snap, m, source)
	case query.IndexList:
		return indexLookup(ctx, snap, m)
	case query.AllSets:
		return allSets(ctx, snap)
	case query.AllItems:
		return allItems(ctx, snap)
	case query.ClassTag:
		return classTagSearch(ctx, snap, item.FacetQuery{Classes: m.Classes, Tags: m.Tags})
	case query.Word:
		return wordSearch(ctx, snap, in.Tokens, m)
	default:
		return nil, fmt.Errorf("unsupported query shape %T", m)
	}
}

// uniqueNames drops records whose name is already in seen and records the
// names it keeps.
func uniqueNames(ctx context.Context, recs []item.Record, seen map[string]bool) ([]item.Record, error) {
	out := recs[:0:0]
	for _, r := range recs {
		var name string
		if err := item.DecodeField(ctx, r, item.FieldName, &name); err != nil {
			return nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, r)
	}
	return out, nil
}

func indexLookup(ctx context.Context, snap *Snapshot, m query.IndexList) ([]result.Group, error) {
	recs, err := snap.Items.Get(ctx, m.Indexes)
	if err != nil {
		return nil, err
	}
	if recs, err = uniqueNames(ctx, recs, map[string]bool{}); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return []result.Group{result.New("", result.KindPlain, recs)}, nil
}

func allItems(ctx context.Context, snap *Snapshot) ([]result.Group, error) {
	all, err := snap.Items.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var recs []item.Record
	for _, r := range all {
		sum, err := item.Summarize(ctx, r)
		if err != nil {
			return nil, err
		}
		if !item.IsValidResult(sum.Index, sum.Name, sum.Image, sum.Tags, false) || seen[sum.Name] {
			continue
		}
		seen[sum.Name] = true
		recs = append(recs, r)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return []result.Group{result.New("", result.KindPlain, recs)}, nil
}
