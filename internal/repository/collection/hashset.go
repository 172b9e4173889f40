package collection

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/kailas-cloud/itemdex/internal/domain"
)

// setReader is the consumer interface for index sets (ISP).
type setReader interface {
	SMembers(ctx context.Context, key string) ([]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
}

// projector is the consumer interface for SORT ... GET projection.
type projector interface {
	SortGet(ctx context.Context, key string, patterns []string) ([]*string, error)
}

// HashSet is a lazy view of a set of item indexes. Members are item
// hashes read on demand.
type HashSet struct {
	sets   setReader
	hashes hashReader
	keys   domain.Keys
	key    string
}

// NewHashSet creates a view over the index set at key.
func NewHashSet(sets setReader, hashes hashReader, keys domain.Keys, key string) *HashSet {
	return &HashSet{sets: sets, hashes: hashes, keys: keys, key: key}
}

// Indexes returns the member indexes ascending. Non-numeric members are skipped.
func (s *HashSet) Indexes(ctx context.Context) ([]int, error) {
	members, err := s.sets.SMembers(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", s.key, err)
	}
	return parseIndexes(members), nil
}

// Contains reports whether index is a member.
func (s *HashSet) Contains(ctx context.Context, index int) (bool, error) {
	ok, err := s.sets.SIsMember(ctx, s.key, strconv.Itoa(index))
	if err != nil {
		return false, fmt.Errorf("sismember %s: %w", s.key, err)
	}
	return ok, nil
}

// Get returns a lazy view of one member, or false when index is not in the set.
func (s *HashSet) Get(ctx context.Context, index int) (*Hash, bool, error) {
	ok, err := s.Contains(ctx, index)
	if err != nil || !ok {
		return nil, false, err
	}
	return NewHash(s.hashes, s.keys.Item(index), index), true, nil
}

// SearchHashSet is a HashSet whose members come back with a fixed field
// projection resolved in a single SORT ... GET call.
type SearchHashSet struct {
	*HashSet
	proj   projector
	fields []string
}

// NewSearchHashSet creates a projecting view. fields is the projection.
func NewSearchHashSet(set *HashSet, proj projector, fields []string) *SearchHashSet {
	return &SearchHashSet{HashSet: set, proj: proj, fields: fields}
}

// Records returns every member with its projected fields, ascending by index.
func (s *SearchHashSet) Records(ctx context.Context) ([]*Projected, error) {
	patterns := make([]string, 0, len(s.fields)+1)
	patterns = append(patterns, "#")
	for _, f := range s.fields {
		patterns = append(patterns, s.keys.ItemField(f))
	}

	flat, err := s.proj.SortGet(ctx, s.key, patterns)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", s.key, err)
	}
	width := len(patterns)
	if len(flat)%width != 0 {
		return nil, fmt.Errorf("project %s: reply of %d values is not a multiple of %d", s.key, len(flat), width)
	}

	out := make([]*Projected, 0, len(flat)/width)
	for row := 0; row < len(flat); row += width {
		if flat[row] == nil {
			continue
		}
		idx, err := strconv.Atoi(*flat[row])
		if err != nil {
			continue
		}
		values := make(map[string]*string, len(s.fields))
		for i, f := range s.fields {
			values[f] = flat[row+1+i]
		}
		out = append(out, &Projected{
			index:     idx,
			projected: values,
			fallback:  NewHash(s.hashes, s.keys.Item(idx), idx),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out, nil
}

func parseIndexes(members []string) []int {
	out := make([]int, 0, len(members))
	for _, m := range members {
		if idx, err := strconv.Atoi(m); err == nil {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}
