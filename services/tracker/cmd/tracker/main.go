package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/watchpicker/internal/platform/config"
	"github.com/example/watchpicker/internal/platform/httpserver"
	"github.com/example/watchpicker/internal/platform/logging"
	"github.com/example/watchpicker/internal/platform/natsconn"
	"github.com/example/watchpicker/internal/platform/run"
	trackerconfig "github.com/example/watchpicker/services/tracker/internal/config"
	"github.com/example/watchpicker/services/tracker/internal/handlers"
	"github.com/example/watchpicker/services/tracker/internal/kv"
	"github.com/example/watchpicker/services/tracker/internal/syncbus"
	"github.com/example/watchpicker/services/tracker/internal/tmdb"
	"github.com/example/watchpicker/services/tracker/internal/watchlist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Service: cfg.ServiceName, File: cfg.Log.File})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	trCfg, err := trackerconfig.LoadTracker()
	if err != nil {
		log.Error("load tracker config", zap.Error(err))
		run.Exit(1)
	}

	store, err := kv.Open(kv.Config{
		Backend:    trCfg.Storage.Backend,
		Dir:        trCfg.Storage.Dir,
		QuotaBytes: trCfg.Storage.QuotaBytes,
		Logger:     log,
	})
	if err != nil {
		log.Error("open storage", zap.Error(err))
		run.Exit(1)
	}

	origin := syncbus.NewOrigin()
	bus, closeBus, err := openBus(trCfg.Sync, origin, log)
	if err != nil {
		log.Error("open sync bus", zap.Error(err))
		_ = store.Close()
		run.Exit(1)
	}

	tr, err := openTracker(store, bus, origin, log)
	if err != nil {
		log.Error("init tracker", zap.Error(err))
		closeBus()
		_ = store.Close()
		run.Exit(1)
	}

	meta := tmdb.New(tmdb.Options{
		BaseURL: trCfg.TMDB.BaseURL,
		APIKey:  trCfg.TMDB.APIKey,
		RPS:     trCfg.TMDB.RPS,
		Cache:   tmdb.NewTTLCache(trCfg.TMDB.CacheTTL, 0),
		Logger:  log,
	})
	if trCfg.TMDB.APIKey == "" {
		log.Warn("TMDB_API_KEY not set; metadata routes will answer 503")
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		Logger:  log,
		Metrics: true,
		ReadyFunc: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_, _, err := store.Get(ctx, watchlist.WatchlistKey)
			return err
		},
	})
	handlers.Mount(r, tr, handlers.Catalog{Meta: meta, Log: log})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, Router: r})

	log.Info("tracker starting",
		zap.String("origin", origin),
		zap.String("storage", trCfg.Storage.Backend),
		zap.String("sync_bus", trCfg.Sync.Bus),
	)

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		return srv.Start(log)
	})

	runner.Graceful(
		srv.Shutdown,
		tr.Close,
		func(context.Context) error { closeBus(); return nil },
		func(context.Context) error { return store.Close() },
	)

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// openTracker hydrates a tracker over store and subscribes it to bus. On
// failure nothing is left running; the caller still owns store and bus.
func openTracker(store kv.Store, bus syncbus.Bus, origin string, log *zap.Logger) (*watchlist.Tracker, error) {
	tr, err := watchlist.New(context.Background(), watchlist.Options{
		Store:  syncbus.NewStorage(store, bus, origin, log),
		Logger: log,
	})
	if err != nil {
		return nil, err
	}
	if err := tr.Listen(bus, origin); err != nil {
		_ = tr.Close(context.Background())
		return nil, fmt.Errorf("listen for storage events: %w", err)
	}
	return tr, nil
}

// openBus returns the storage-event bus for this process. In embedded mode
// the first process on the machine hosts the NATS server and later ones
// join it as clients.
func openBus(cfg trackerconfig.SyncConfig, origin string, log *zap.Logger) (syncbus.Bus, func(), error) {
	switch cfg.Bus {
	case trackerconfig.BusLocal:
		return syncbus.NewLocalBus(), func() {}, nil

	case trackerconfig.BusNATS:
		nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL, Name: "tracker-" + origin, Logger: log})
		if err != nil {
			return nil, nil, err
		}
		return syncbus.NewNATSBus(nc, cfg.SubjectPrefix, log), nc.Close, nil

	case trackerconfig.BusEmbedded:
		url := fmt.Sprintf("nats://127.0.0.1:%d", cfg.EmbeddedPort)
		shutdown := func() {}
		ns, err := syncbus.StartEmbedded("127.0.0.1", cfg.EmbeddedPort)
		if err == nil {
			url, shutdown = ns.ClientURL(), ns.Shutdown
			log.Info("hosting embedded sync server", zap.String("url", url))
		} else {
			log.Info("joining existing sync server", zap.String("url", url), zap.Error(err))
		}
		nc, err := natsconn.Connect(natsconn.Options{URL: url, Name: "tracker-" + origin, Logger: log})
		if err != nil {
			shutdown()
			return nil, nil, err
		}
		return syncbus.NewNATSBus(nc, cfg.SubjectPrefix, log), func() { nc.Close(); shutdown() }, nil
	}
	return nil, nil, errors.New("unknown sync bus " + cfg.Bus)
}
