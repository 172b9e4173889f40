package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	HashStore
	SetStore
	ListStore
	KVStore
	SetAlgebra
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HExists(ctx context.Context, key, field string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// SetStore provides set operations over member ids.
type SetStore interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
	// SortGet runs SORT key BY nosort GET <pattern>... in one round trip.
	// The reply is flat: len(patterns) values per member, nil where a
	// projected field is absent.
	SortGet(ctx context.Context, key string, patterns []string) ([]*string, error)
}

// ListStore provides list reads.
type ListStore interface {
	LRange(ctx context.Context, key string) ([]string, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// SetAlgebra applies an ordered batch of set operations atomically.
type SetAlgebra interface {
	ExecSetOps(ctx context.Context, ops []SetOp) error
}

// SetOpKind selects the server-side command of a SetOp.
type SetOpKind int

// Set operation kinds.
const (
	// OpKindUnion stores the union of Keys into Dest.
	OpKindUnion SetOpKind = iota
	// OpKindInter stores the intersection of Keys into Dest.
	OpKindInter
	// OpKindDiff stores Keys[0] minus the remaining Keys into Dest.
	OpKindDiff
	// OpKindSortStore stores Keys[0] sorted numerically ascending as a list at Dest.
	OpKindSortStore
	// OpKindExpire sets TTL on Dest.
	OpKindExpire
	// OpKindDelete removes Keys.
	OpKindDelete
	// OpKindMark writes a marker value at Dest that expires after TTL.
	OpKindMark
)

// SetOp is one step of a transactional set-algebra batch.
type SetOp struct {
	Kind SetOpKind
	Dest string
	Keys []string
	TTL  time.Duration
}
