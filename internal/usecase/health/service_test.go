package health

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeCatalog struct{ err error }

func (f fakeCatalog) HealthCheck(context.Context) error { return f.err }

func TestCheck(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name    string
		db      DBPinger
		catalog CatalogChecker
		status  Status
		checks  map[string]CheckResult
	}{
		{
			name: "all healthy", db: fakePinger{}, catalog: fakeCatalog{},
			status: Healthy, checks: map[string]CheckResult{"database": CheckOK, "catalog": CheckOK},
		},
		{
			name: "store down", db: fakePinger{err: down}, catalog: fakeCatalog{},
			status: Degraded, checks: map[string]CheckResult{"database": CheckError, "catalog": CheckOK},
		},
		{
			name: "catalog not loaded", db: fakePinger{}, catalog: fakeCatalog{err: down},
			status: Degraded, checks: map[string]CheckResult{"database": CheckOK, "catalog": CheckError},
		},
		{
			name: "everything down", db: fakePinger{err: down}, catalog: fakeCatalog{err: down},
			status: Unhealthy, checks: map[string]CheckResult{"database": CheckError, "catalog": CheckError},
		},
		{
			name: "offline catalog without store", catalog: fakeCatalog{},
			status: Healthy, checks: map[string]CheckResult{"catalog": CheckOK},
		},
		{
			name: "nothing to check", status: Healthy, checks: map[string]CheckResult{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.db, tt.catalog).Check(context.Background())
			if r.Status != tt.status {
				t.Errorf("Status = %q, want %q", r.Status, tt.status)
			}
			if !reflect.DeepEqual(r.Checks, tt.checks) {
				t.Errorf("Checks = %v, want %v", r.Checks, tt.checks)
			}
		})
	}
}
