package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/itemdex/internal/db"
)

// SAdd adds members to a set.
func (s *Store) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	cmd := s.b().Sadd().Key(key).Member(members...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSAdd, Err: err}
	}
	return nil
}

// SMembers returns all members of a set. A missing key yields an empty slice.
func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	cmd := s.b().Smembers().Key(key).Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpSMembers, Err: err}
	}
	return members, nil
}

// SIsMember checks set membership.
func (s *Store) SIsMember(ctx context.Context, key, member string) (bool, error) {
	cmd := s.b().Sismember().Key(key).Member(member).Build()
	ok, err := s.do(ctx, cmd).AsBool()
	if err != nil {
		return false, &db.Error{Op: db.OpSIsMember, Err: err}
	}
	return ok, nil
}

// SortGet projects hash fields for every member of a set in one round trip.
func (s *Store) SortGet(ctx context.Context, key string, patterns []string) ([]*string, error) {
	args := make([]string, 0, 2+2*len(patterns))
	args = append(args, "BY", "nosort")
	for _, p := range patterns {
		args = append(args, "GET", p)
	}

	cmd := s.b().Arbitrary("SORT").Keys(key).Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, &db.Error{Op: db.OpSort, Err: err}
	}

	out := make([]*string, len(raw))
	for i := range raw {
		if raw[i].IsNil() {
			continue
		}
		v, err := raw[i].ToString()
		if err != nil {
			return nil, &db.Error{Op: db.OpSort, Err: err}
		}
		out[i] = &v
	}
	return out, nil
}

// LRange returns every element of a list.
func (s *Store) LRange(ctx context.Context, key string) ([]string, error) {
	cmd := s.b().Lrange().Key(key).Start(0).Stop(-1).Build()
	elems, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}
	return elems, nil
}
