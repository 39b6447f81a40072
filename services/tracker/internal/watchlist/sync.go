package watchlist

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/example/watchpicker/internal/platform/metrics"
	"github.com/example/watchpicker/services/tracker/internal/syncbus"
)

// Listen follows storage events that other contexts publish on bus.
// origin must be the one this tracker's storage writes under.
func (t *Tracker) Listen(bus syncbus.Bus, origin string) error {
	t.mustBeReady()
	if bus == nil {
		return errors.New("watchlist: bus is required")
	}
	unsub, err := bus.Subscribe(origin, t.HandleEvent)
	if err != nil {
		return err
	}

	t.mu.Lock()
	prev := t.unsubscribe
	t.unsubscribe = unsub
	t.mu.Unlock()
	if prev != nil {
		prev()
	}
	return nil
}

// HandleEvent reconciles one storage event from another context. A new
// value for either key replaces that collection wholesale; entries are not
// merged, so the last writer across contexts wins. A value that does not
// parse is erased from storage and the collection reset. A local write of
// the same key still outstanding is replaced by the new collection so
// storage ends up matching the mirror.
func (t *Tracker) HandleEvent(ev syncbus.Event) {
	t.mustBeReady()
	if ev.NewValue == nil || *ev.NewValue == "" || (ev.Key != WatchlistKey && ev.Key != WatchedKey) {
		metrics.SyncEvents.WithLabelValues("ignored").Inc()
		return
	}

	switch ev.Key {
	case WatchlistKey:
		entries, err := parseCollection[WatchlistEntry](*ev.NewValue)
		if err != nil {
			t.store.discard(context.Background(), ev.Key, "sync", err)
			entries = []WatchlistEntry{}
		}
		t.mu.Lock()
		t.watchlist = entries
		t.persist.supersede(WatchlistKey, append([]WatchlistEntry{}, entries...))
		t.mu.Unlock()
		t.applied(ev, len(entries), err)
	case WatchedKey:
		entries, err := parseCollection[WatchedEntry](*ev.NewValue)
		if err != nil {
			t.store.discard(context.Background(), ev.Key, "sync", err)
			entries = []WatchedEntry{}
		}
		t.mu.Lock()
		t.watched = entries
		t.persist.supersede(WatchedKey, append([]WatchedEntry{}, entries...))
		t.mu.Unlock()
		t.applied(ev, len(entries), err)
	}
}

func (t *Tracker) applied(ev syncbus.Event, n int, err error) {
	if err != nil {
		metrics.SyncEvents.WithLabelValues("corrupt").Inc()
		return
	}
	metrics.SyncEvents.WithLabelValues("applied").Inc()
	t.log.Debug("collection replaced by remote write",
		zap.String("key", ev.Key), zap.String("origin", ev.Origin), zap.Int("entries", n))
}
