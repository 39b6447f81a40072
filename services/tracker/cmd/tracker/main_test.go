package main

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	trackerconfig "github.com/example/watchpicker/services/tracker/internal/config"
	"github.com/example/watchpicker/services/tracker/internal/kv"
	"github.com/example/watchpicker/services/tracker/internal/syncbus"
)

type refusingBus struct{ syncbus.Bus }

func (refusingBus) Subscribe(string, syncbus.Handler) (func(), error) {
	return nil, errors.New("bus down")
}

func TestOpenTracker_ListenFailureLeavesStoreUsable(t *testing.T) {
	store := kv.NewMemoryStore(0)
	tr, err := openTracker(store, refusingBus{}, syncbus.NewOrigin(), zap.NewNop())
	if err == nil {
		t.Fatal("expected error when the bus refuses subscriptions")
	}
	if tr != nil {
		t.Fatal("expected no tracker on failure")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("expected store to close cleanly, got %v", err)
	}
}

func TestOpenTracker_Local(t *testing.T) {
	bus, closeBus, err := openBus(trackerconfig.SyncConfig{Bus: trackerconfig.BusLocal}, "o", zap.NewNop())
	if err != nil {
		t.Fatalf("open bus: %v", err)
	}
	defer closeBus()

	tr, err := openTracker(kv.NewMemoryStore(0), bus, "o", zap.NewNop())
	if err != nil {
		t.Fatalf("open tracker: %v", err)
	}
	defer func() { _ = tr.Close(context.Background()) }()
	if len(tr.Watchlist()) != 0 {
		t.Fatalf("expected empty watchlist, got %+v", tr.Watchlist())
	}
}
