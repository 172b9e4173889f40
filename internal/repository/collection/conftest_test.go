package collection

import (
	"context"
	"strconv"
	"testing"

	"go.uber.org/goleak"

	"github.com/kailas-cloud/itemdex/internal/db"
	"github.com/kailas-cloud/itemdex/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testKeys = domain.NewKeys("t:")

// mockStore implements the consumer interfaces for tests.
type mockStore struct {
	hgetFn         func(ctx context.Context, key, field string) (string, error)
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	hexistsFn      func(ctx context.Context, key, field string) (bool, error)
	smembersFn     func(ctx context.Context, key string) ([]string, error)
	sismemberFn    func(ctx context.Context, key, member string) (bool, error)
	sortGetFn      func(ctx context.Context, key string, patterns []string) ([]*string, error)
}

func (m *mockStore) HGet(ctx context.Context, key, field string) (string, error) {
	if m.hgetFn != nil {
		return m.hgetFn(ctx, key, field)
	}
	return "", db.ErrFieldNotFound
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) HExists(ctx context.Context, key, field string) (bool, error) {
	if m.hexistsFn != nil {
		return m.hexistsFn(ctx, key, field)
	}
	return false, nil
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) SIsMember(ctx context.Context, key, member string) (bool, error) {
	if m.sismemberFn != nil {
		return m.sismemberFn(ctx, key, member)
	}
	return false, nil
}

func (m *mockStore) SortGet(ctx context.Context, key string, patterns []string) ([]*string, error) {
	if m.sortGetFn != nil {
		return m.sortGetFn(ctx, key, patterns)
	}
	return nil, nil
}

// hashesFromMap serves HGetAllMulti from a fixed key -> fields map.
func hashesFromMap(data map[string]map[string]string) func(context.Context, []string) ([]map[string]string, error) {
	return func(_ context.Context, keys []string) ([]map[string]string, error) {
		out := make([]map[string]string, len(keys))
		for i, k := range keys {
			out[i] = data[k]
		}
		return out, nil
	}
}

func nameHash(index int) map[string]string {
	return map[string]string{"index": strconv.Itoa(index), "name": `"Item ` + strconv.Itoa(index) + `"`}
}

func strp(s string) *string { return &s }
