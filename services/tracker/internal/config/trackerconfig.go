package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	platformconfig "github.com/example/watchpicker/internal/platform/config"
	"github.com/example/watchpicker/services/tracker/internal/kv"
)

// Sync bus kinds.
const (
	BusLocal    = "local"
	BusNATS     = "nats"
	BusEmbedded = "embedded"
)

type StorageConfig struct {
	Backend    string
	Dir        string
	QuotaBytes int64
}

type SyncConfig struct {
	Bus           string
	NATSURL       string
	SubjectPrefix string
	// EmbeddedPort is used when Bus is embedded; -1 picks a free port.
	EmbeddedPort int
}

type TMDBConfig struct {
	APIKey   string
	BaseURL  string
	RPS      int
	CacheTTL time.Duration
}

type TrackerConfig struct {
	Storage StorageConfig
	Sync    SyncConfig
	TMDB    TMDBConfig
}

func LoadTracker() (TrackerConfig, error) {
	cfg := TrackerConfig{
		Storage: StorageConfig{
			Backend:    platformconfig.EnvString("STORAGE_BACKEND", kv.BackendBadger),
			Dir:        platformconfig.EnvString("STORAGE_DIR", "./data"),
			QuotaBytes: platformconfig.EnvInt64("STORAGE_QUOTA_BYTES", 5<<20),
		},
		Sync: SyncConfig{
			Bus:           platformconfig.EnvString("SYNC_BUS", BusLocal),
			NATSURL:       strings.TrimSpace(os.Getenv("NATS_URL")),
			SubjectPrefix: platformconfig.EnvString("SYNC_SUBJECT_PREFIX", "watchpicker"),
			EmbeddedPort:  platformconfig.EnvInt("SYNC_EMBEDDED_PORT", 4222),
		},
		TMDB: TMDBConfig{
			APIKey:   strings.TrimSpace(os.Getenv("TMDB_API_KEY")),
			BaseURL:  platformconfig.EnvString("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			RPS:      platformconfig.EnvInt("TMDB_RPS", 20),
			CacheTTL: platformconfig.EnvDuration("TMDB_CACHE_TTL", time.Minute),
		},
	}

	switch cfg.Storage.Backend {
	case kv.BackendMemory, kv.BackendBadger, kv.BackendSQLite:
	default:
		return TrackerConfig{}, fmt.Errorf("STORAGE_BACKEND %q is not one of memory, badger, sqlite", cfg.Storage.Backend)
	}
	switch cfg.Sync.Bus {
	case BusLocal, BusNATS, BusEmbedded:
	default:
		return TrackerConfig{}, fmt.Errorf("SYNC_BUS %q is not one of local, nats, embedded", cfg.Sync.Bus)
	}
	return cfg, nil
}
