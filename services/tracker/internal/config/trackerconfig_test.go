package config

import (
	"testing"

	"github.com/example/watchpicker/services/tracker/internal/kv"
)

func TestLoadTracker_Defaults(t *testing.T) {
	for _, k := range []string{"STORAGE_BACKEND", "STORAGE_DIR", "STORAGE_QUOTA_BYTES", "SYNC_BUS", "NATS_URL", "SYNC_SUBJECT_PREFIX", "SYNC_EMBEDDED_PORT", "TMDB_API_KEY", "TMDB_BASE_URL", "TMDB_RPS", "TMDB_CACHE_TTL"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadTracker()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Backend != kv.BackendBadger {
		t.Fatalf("expected badger backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.QuotaBytes != 5<<20 {
		t.Fatalf("expected 5 MiB quota, got %d", cfg.Storage.QuotaBytes)
	}
	if cfg.Sync.Bus != BusLocal || cfg.Sync.SubjectPrefix != "watchpicker" {
		t.Fatalf("unexpected sync config: %+v", cfg.Sync)
	}
	if cfg.TMDB.RPS != 20 || cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Fatalf("unexpected tmdb config: %+v", cfg.TMDB)
	}
}

func TestLoadTracker_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("STORAGE_QUOTA_BYTES", "1024")
	t.Setenv("SYNC_BUS", "nats")
	t.Setenv("NATS_URL", " nats://bus:4222 ")
	t.Setenv("TMDB_RPS", "not-a-number")

	cfg, err := LoadTracker()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Backend != kv.BackendSQLite || cfg.Storage.QuotaBytes != 1024 {
		t.Fatalf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Sync.NATSURL != "nats://bus:4222" {
		t.Fatalf("expected trimmed NATS_URL, got %q", cfg.Sync.NATSURL)
	}
	if cfg.TMDB.RPS != 20 {
		t.Fatalf("expected invalid TMDB_RPS to fall back to 20, got %d", cfg.TMDB.RPS)
	}
}

func TestLoadTracker_RejectsUnknownValues(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	if _, err := LoadTracker(); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("SYNC_BUS", "kafka")
	if _, err := LoadTracker(); err == nil {
		t.Fatal("expected error for unknown bus")
	}
}
