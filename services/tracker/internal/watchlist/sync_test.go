package watchlist

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/example/watchpicker/services/tracker/internal/kv"
	"github.com/example/watchpicker/services/tracker/internal/syncbus"
)

// tab builds one execution context over a shared store and bus.
func tab(t *testing.T, store kv.Store, bus *syncbus.LocalBus) *Tracker {
	t.Helper()
	origin := syncbus.NewOrigin()
	tr := newTestTracker(t, syncbus.NewStorage(store, bus, origin, nil))
	if err := tr.Listen(bus, origin); err != nil {
		t.Fatalf("listen: %v", err)
	}
	return tr
}

func strPtr(s string) *string { return &s }

func TestSync_WriteReachesOtherContext(t *testing.T) {
	store, bus := kv.NewMemoryStore(0), syncbus.NewLocalBus()
	a := tab(t, store, bus)
	b := tab(t, store, bus)

	a.MarkAsWatched(showA)
	flush(t, a)

	if !b.IsWatched("42") || !b.IsInWatchlist("42") {
		t.Fatal("expected b to follow a's writes")
	}
	if b.Watchlist()[0] != a.Watchlist()[0] {
		t.Fatalf("expected identical entries, got %+v vs %+v", b.Watchlist()[0], a.Watchlist()[0])
	}
}

func TestSync_ReplacesWholesale(t *testing.T) {
	store, bus := kv.NewMemoryStore(0), syncbus.NewLocalBus()
	b := tab(t, store, bus)
	b.AddToWatchlist(movieX)
	flush(t, b)

	b.HandleEvent(syncbus.Event{
		Key:      WatchlistKey,
		NewValue: strPtr(`[{"id":"99","title":"Other","poster_path":"","category":"movie","addedAt":1}]`),
		Origin:   "elsewhere",
	})

	got := b.Watchlist()
	if len(got) != 1 || got[0].ID != "99" {
		t.Fatalf("expected remote collection to replace local one, got %+v", got)
	}
	if b.IsInWatchlist("7") {
		t.Fatal("local entry must not be merged back in")
	}
}

func TestSync_WholeCollectionFollowsLastWriter(t *testing.T) {
	store, bus := kv.NewMemoryStore(0), syncbus.NewLocalBus()
	a := tab(t, store, bus)
	b := tab(t, store, bus)

	a.AddToWatchlist(movieX)
	flush(t, a)
	b.RemoveFromWatchlist("7")
	flush(t, b)
	if len(a.Watchlist()) != 0 {
		t.Fatalf("expected b's removal to reach a, got %+v", a.Watchlist())
	}

	a.AddToWatchlist(showA)
	flush(t, a)
	got := b.Watchlist()
	if len(got) != 1 || got[0].ID != "42" {
		t.Fatalf("expected b to hold a's latest collection, got %+v", got)
	}
	v, _, _ := store.Get(context.Background(), WatchlistKey)
	if !strings.HasPrefix(v, `[{"id":"42"`) {
		t.Fatalf("expected stored collection to be a's, got %s", v)
	}
}

func TestSync_CorruptEventResetsCollection(t *testing.T) {
	store, bus := kv.NewMemoryStore(0), syncbus.NewLocalBus()
	b := tab(t, store, bus)
	b.MarkAsWatched(movieX)
	flush(t, b)

	b.HandleEvent(syncbus.Event{Key: WatchedKey, NewValue: strPtr("[{broken"), Origin: "elsewhere"})

	if len(b.Watched()) != 0 {
		t.Fatalf("expected watched reset, got %+v", b.Watched())
	}
	if _, ok, _ := store.Get(context.Background(), WatchedKey); ok {
		t.Fatal("expected corrupt key to be erased")
	}
}

func TestSync_IgnoresRemovalsAndForeignKeys(t *testing.T) {
	b := tab(t, kv.NewMemoryStore(0), syncbus.NewLocalBus())
	b.AddToWatchlist(movieX)

	b.HandleEvent(syncbus.Event{Key: WatchlistKey, NewValue: nil, Origin: "elsewhere"})
	b.HandleEvent(syncbus.Event{Key: WatchlistKey, NewValue: strPtr(""), Origin: "elsewhere"})
	b.HandleEvent(syncbus.Event{Key: "theme", NewValue: strPtr("dark"), Origin: "elsewhere"})

	if !b.IsInWatchlist("7") {
		t.Fatal("removal, empty and unrelated events must leave the collection alone")
	}
}

func TestSync_OwnOriginIsNotDelivered(t *testing.T) {
	store, bus := kv.NewMemoryStore(0), syncbus.NewLocalBus()
	origin := syncbus.NewOrigin()
	a := newTestTracker(t, syncbus.NewStorage(store, bus, origin, nil))
	if err := a.Listen(bus, origin); err != nil {
		t.Fatalf("listen: %v", err)
	}
	a.AddToWatchlist(movieX)

	_ = bus.Publish(context.Background(), syncbus.Event{Key: WatchlistKey, NewValue: strPtr("[]"), Origin: origin})
	if !a.IsInWatchlist("7") {
		t.Fatal("a context must not receive events stamped with its own origin")
	}

	_ = bus.Publish(context.Background(), syncbus.Event{Key: WatchlistKey, NewValue: strPtr("[]"), Origin: "other"})
	if a.IsInWatchlist("7") {
		t.Fatal("expected event from another origin to apply")
	}
}

func TestSync_CloseStopsListening(t *testing.T) {
	store, bus := kv.NewMemoryStore(0), syncbus.NewLocalBus()
	a := tab(t, store, bus)
	b := tab(t, store, bus)
	if err := b.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	a.AddToWatchlist(movieX)
	flush(t, a)
	if b.IsInWatchlist("7") {
		t.Fatal("closed tracker must not follow other contexts")
	}
}

func TestListen_RequiresBus(t *testing.T) {
	tr := newTestTracker(t, kv.NewMemoryStore(0))
	if err := tr.Listen(nil, "x"); err == nil {
		t.Fatal("expected error for nil bus")
	}
}

// gatedStore blocks the first Set until release is closed.
type gatedStore struct {
	kv.Store
	once    sync.Once
	entered chan struct{}
	release chan struct{}
	sets    atomic.Int32
}

func newGatedStore() *gatedStore {
	return &gatedStore{Store: kv.NewMemoryStore(0), entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedStore) Set(ctx context.Context, key, value string) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	g.sets.Add(1)
	return g.Store.Set(ctx, key, value)
}

func TestSync_RemoteValueSupersedesOutstandingLocalWrites(t *testing.T) {
	store := newGatedStore()
	tr := newTestTracker(t, store)

	tr.AddToWatchlist(Item{ID: "a1", Title: "A1", Category: CategoryMovie})
	<-store.entered
	tr.AddToWatchlist(Item{ID: "a2", Title: "A2", Category: CategoryMovie})

	remote := `[{"id":"b","title":"B","poster_path":"","category":"movie","addedAt":1}]`
	tr.HandleEvent(syncbus.Event{Key: WatchlistKey, NewValue: strPtr(remote), Origin: "elsewhere"})
	close(store.release)
	flush(t, tr)

	got := tr.Watchlist()
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected mirror [b], got %+v", got)
	}
	raw, ok, err := store.Get(context.Background(), WatchlistKey)
	if err != nil || !ok {
		t.Fatalf("expected stored watchlist, got ok=%v err=%v", ok, err)
	}
	stored, err := parseCollection[WatchlistEntry](raw)
	if err != nil {
		t.Fatalf("parse stored value: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != "b" {
		t.Fatalf("expected storage to match mirror [b], got %s", raw)
	}
}

func TestSync_RemoteValueIsNotRewrittenWhenIdle(t *testing.T) {
	store := newGatedStore()
	close(store.release)
	tr := newTestTracker(t, store)

	tr.HandleEvent(syncbus.Event{Key: WatchedKey, NewValue: strPtr(`[]`), Origin: "elsewhere"})
	flush(t, tr)

	if n := store.sets.Load(); n != 0 {
		t.Fatalf("expected no writes for a remote replace, got %d", n)
	}
}
