package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kailas-cloud/itemdex/internal/domain/price"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = []string{}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing addrs")
	}
}

func TestValidate_UnknownPriceSource(t *testing.T) {
	cfg := validConfig()
	cfg.Search.PriceSource = "ebay"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown price source")
	}
	expected := `search.price_source: unknown price source "ebay"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.PriceSource() != price.SourceBackpack {
		t.Errorf("expected PriceSource=backpack.tf, got %q", cfg.PriceSource())
	}
	if cfg.Search.HashBufferSize != 100 {
		t.Errorf("expected HashBufferSize=100, got %d", cfg.Search.HashBufferSize)
	}
	if cfg.RefreshInterval() != 5*time.Minute {
		t.Errorf("expected RefreshInterval=5m, got %s", cfg.RefreshInterval())
	}
	if cfg.FacetTTL() != time.Hour {
		t.Errorf("expected FacetTTL=1h, got %s", cfg.FacetTTL())
	}
	if cfg.Storage.KeyPrefix != "" {
		t.Errorf("expected empty KeyPrefix, got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{ReadinessTimeout: 15},
		Storage:  StorageConfig{KeyPrefix: "custom:"},
		Search: SearchConfig{
			PriceSource:        "trade.tf",
			HashBufferSize:     25,
			RefreshIntervalSec: 60,
			FacetIndex:         FacetIndexConfig{Enabled: true, TTLSec: 120},
		},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.PriceSource() != price.SourceTrade {
		t.Errorf("expected PriceSource=trade.tf, got %q", cfg.PriceSource())
	}
	if cfg.Search.HashBufferSize != 25 {
		t.Errorf("expected HashBufferSize=25, got %d", cfg.Search.HashBufferSize)
	}
	if cfg.FacetTTL() != 2*time.Minute {
		t.Errorf("expected FacetTTL=2m, got %s", cfg.FacetTTL())
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ITEMDEX_TEST_ADDR", "redis:6380")

	got := string(expandEnvVars([]byte("a: ${ITEMDEX_TEST_ADDR}\nb: ${ITEMDEX_TEST_UNSET:-fallback}\nc: ${ITEMDEX_TEST_UNSET}")))
	want := "a: redis:6380\nb: fallback\nc: "
	if got != want {
		t.Errorf("expandEnvVars = %q, want %q", got, want)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 9000
database:
  addrs: ["${ITEMDEX_TEST_REDIS:-localhost:6379}"]
storage:
  key_prefix: "tf2:"
search:
  facet_index:
    enabled: true
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9000 || cfg.Database.Addrs[0] != "localhost:6379" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Storage.KeyPrefix != "tf2:" || !cfg.Search.FacetIndex.Enabled || cfg.FacetTTL() != time.Hour {
		t.Errorf("cfg = %+v", cfg)
	}
}
