package facetindex

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/itemdex/internal/db"
	"github.com/kailas-cloud/itemdex/internal/domain"
	"github.com/kailas-cloud/itemdex/internal/domain/item"
)

// DefaultTTL is how long a built index stays cached.
const DefaultTTL = time.Hour

// Result sequence suffixes, one per bucket.
const (
	suffixSingle = "single"
	suffixMulti  = "multi"
	suffixAll    = "all"
	// suffixBuilt marks a built index, including one whose buckets are all
	// empty and so left no list behind.
	suffixBuilt = "built"
)

// store is the consumer interface for the facet index (ISP).
type store interface {
	Exists(ctx context.Context, keys ...string) (bool, error)
	LRange(ctx context.Context, key string) ([]string, error)
	ExecSetOps(ctx context.Context, ops []db.SetOp) error
}

// Builder precomputes class/tag search results with set algebra on the
// store and caches them with a TTL.
type Builder struct {
	store      store
	keys       domain.Keys
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a builder. cacheTotal is a counter vec with label "result"
// ("hit"/"miss"), passed explicitly; it may be nil.
func New(s store, keys domain.Keys, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Builder {
	if ttl < time.Second {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{store: s, keys: keys, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// Lookup returns the cached index for q, building it first when absent.
func (b *Builder) Lookup(ctx context.Context, q item.FacetQuery) (item.Buckets, error) {
	keys := b.resultKeys(q)

	exists, err := b.store.Exists(ctx, b.markerKey(q))
	if err != nil {
		return item.Buckets{}, fmt.Errorf("check facet index: %w", err)
	}
	if exists {
		b.incCache("hit")
	} else {
		b.incCache("miss")
		if err := b.store.ExecSetOps(ctx, b.buildOps(q, keys, b.markerKey(q))); err != nil {
			b.logger.Warn("Failed to build facet index",
				zap.Strings("classes", q.Classes), zap.Strings("tags", q.Tags), zap.Error(err))
			return item.Buckets{}, fmt.Errorf("build facet index: %w", err)
		}
	}

	var out [3][]int
	for i, key := range keys {
		members, err := b.store.LRange(ctx, key)
		if err != nil {
			return item.Buckets{}, fmt.Errorf("read facet index %s: %w", key, err)
		}
		out[i] = toIndexes(members)
	}
	return item.Buckets{Single: out[0], Multi: out[1], All: out[2]}, nil
}

func (b *Builder) resultKeys(q item.FacetQuery) [3]string {
	return [3]string{
		b.keys.SearchIndex(q.Classes, q.Tags, suffixSingle),
		b.keys.SearchIndex(q.Classes, q.Tags, suffixMulti),
		b.keys.SearchIndex(q.Classes, q.Tags, suffixAll),
	}
}

func (b *Builder) markerKey(q item.FacetQuery) string {
	return b.keys.SearchIndex(q.Classes, q.Tags, suffixBuilt)
}

// buildOps computes
//
//	matched = (∪ class sets ∪ none) ∩ (∪|∩ tag sets) ∩ valid − tokens − tournament
//	single  = matched − multi − none
//	multi   = matched ∩ multi
//	all     = matched ∩ none
//
// and stores each bucket sorted, with a TTL, then writes marker with the same
// TTL. Temporary keys are removed in the same transaction.
func (b *Builder) buildOps(q item.FacetQuery, results [3]string, marker string) []db.SetOp {
	tmp := func(name string) string { return b.keys.SearchIndex(q.Classes, q.Tags, "tmp:"+name) }
	valid := b.keys.ValidItems()
	var ops []db.SetOp
	var temps []string

	classSrc := valid
	if len(q.Classes) > 0 {
		classSrc = tmp("classes")
		src := make([]string, 0, len(q.Classes)+1)
		for _, c := range q.Classes {
			src = append(src, b.keys.Class(c))
		}
		src = append(src, b.keys.NoClass())
		ops = append(ops, db.SetOp{Kind: db.OpKindUnion, Dest: classSrc, Keys: src})
		temps = append(temps, classSrc)
	}

	tagSrc := valid
	if len(q.Tags) > 0 {
		tagSrc = tmp("tags")
		src := make([]string, len(q.Tags))
		for i, t := range q.Tags {
			src[i] = b.keys.Tag(t)
		}
		kind := db.OpKindUnion
		if q.SlotSearch() {
			kind = db.OpKindInter
		}
		ops = append(ops, db.SetOp{Kind: kind, Dest: tagSrc, Keys: src})
		temps = append(temps, tagSrc)
	}

	matched := tmp("matched")
	ops = append(ops, db.SetOp{Kind: db.OpKindInter, Dest: matched, Keys: []string{classSrc, tagSrc, valid}})
	temps = append(temps, matched)
	if q.HidesTokens() {
		ops = append(ops, db.SetOp{Kind: db.OpKindDiff, Dest: matched, Keys: []string{matched, b.keys.Tag(item.TagToken)}})
	}
	if q.HidesTournament() {
		ops = append(ops, db.SetOp{Kind: db.OpKindDiff, Dest: matched, Keys: []string{matched, b.keys.Tag(item.TagTournament)}})
	}

	single, multi, all := tmp(suffixSingle), tmp(suffixMulti), tmp(suffixAll)
	temps = append(temps, single, multi, all)
	ops = append(ops,
		db.SetOp{Kind: db.OpKindDiff, Dest: single, Keys: []string{matched, b.keys.MultiClass(), b.keys.NoClass()}},
		db.SetOp{Kind: db.OpKindInter, Dest: multi, Keys: []string{matched, b.keys.MultiClass()}},
		db.SetOp{Kind: db.OpKindInter, Dest: all, Keys: []string{matched, b.keys.NoClass()}},
	)

	for i, src := range []string{single, multi, all} {
		ops = append(ops, db.SetOp{Kind: db.OpKindSortStore, Dest: results[i], Keys: []string{src}})
	}
	for _, key := range results {
		ops = append(ops, db.SetOp{Kind: db.OpKindExpire, Dest: key, TTL: b.ttl})
	}
	ops = append(ops,
		db.SetOp{Kind: db.OpKindMark, Dest: marker, TTL: b.ttl},
		db.SetOp{Kind: db.OpKindDelete, Keys: temps},
	)
	return ops
}

func (b *Builder) incCache(result string) {
	if b.cacheTotal != nil {
		b.cacheTotal.WithLabelValues(result).Inc()
	}
}

func toIndexes(members []string) []int {
	out := make([]int, 0, len(members))
	for _, m := range members {
		if idx, err := strconv.Atoi(m); err == nil {
			out = append(out, idx)
		}
	}
	return out
}
