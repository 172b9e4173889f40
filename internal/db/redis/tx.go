package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/itemdex/internal/db"
)

// ExecSetOps queues ops between MULTI and EXEC and sends them in one DoMulti
// round trip, so no reader observes an intermediate key state.
func (s *Store) ExecSetOps(ctx context.Context, ops []db.SetOp) error {
	if len(ops) == 0 {
		return nil
	}

	for i, op := range ops {
		if err := validateSetOp(op); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
	}

	cmds := make([]rueidis.Completed, 0, len(ops)+2)
	cmds = append(cmds, s.b().Multi().Build())
	for _, op := range ops {
		cmds = append(cmds, s.setOpCmd(op))
	}
	cmds = append(cmds, s.b().Exec().Build())

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results[:len(results)-1] {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpMultiExec, Err: fmt.Errorf("queue cmd %d: %w", i, err)}
		}
	}

	replies, err := results[len(results)-1].ToArray()
	if err != nil {
		if rueidis.IsRedisNil(err) || isRedisErr(err, "execabort") {
			return &db.Error{Op: db.OpMultiExec, Err: fmt.Errorf("%w: %w", db.ErrTxAborted, err)}
		}
		return &db.Error{Op: db.OpMultiExec, Err: err}
	}
	for i := range replies {
		if err := replies[i].Error(); err != nil {
			return &db.Error{Op: db.OpMultiExec, Err: fmt.Errorf("op %d: %w", i, err)}
		}
	}
	return nil
}

func validateSetOp(op db.SetOp) error {
	switch op.Kind {
	case db.OpKindUnion, db.OpKindInter, db.OpKindDiff, db.OpKindDelete:
		if len(op.Keys) == 0 {
			return fmt.Errorf("set op into %q: no source keys", op.Dest)
		}
	case db.OpKindSortStore:
		if len(op.Keys) != 1 {
			return fmt.Errorf("sort into %q: want 1 source key, got %d", op.Dest, len(op.Keys))
		}
	case db.OpKindExpire, db.OpKindMark:
		if op.TTL < time.Second {
			return fmt.Errorf("expire %q: ttl %s below one second", op.Dest, op.TTL)
		}
	default:
		return fmt.Errorf("unknown set op kind %d", op.Kind)
	}
	return nil
}

func (s *Store) setOpCmd(op db.SetOp) rueidis.Completed {
	switch op.Kind {
	case db.OpKindUnion:
		return s.b().Sunionstore().Destination(op.Dest).Key(op.Keys...).Build()
	case db.OpKindInter:
		return s.b().Sinterstore().Destination(op.Dest).Key(op.Keys...).Build()
	case db.OpKindDiff:
		return s.b().Sdiffstore().Destination(op.Dest).Key(op.Keys...).Build()
	case db.OpKindSortStore:
		return s.b().Arbitrary("SORT").Keys(op.Keys[0]).Args("STORE", op.Dest).Build()
	case db.OpKindExpire:
		return s.b().Expire().Key(op.Dest).Seconds(int64(op.TTL.Seconds())).Build()
	case db.OpKindMark:
		return s.b().Arbitrary("SET").Keys(op.Dest).
			Args("1", "EX", strconv.FormatInt(int64(op.TTL.Seconds()), 10)).Build()
	default:
		return s.b().Del().Key(op.Keys...).Build()
	}
}
