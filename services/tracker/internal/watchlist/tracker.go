// Package watchlist keeps the user's watchlist and watched history in
// memory, mirrors both into durable storage, and follows changes that other
// execution contexts make to the same storage.
package watchlist

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/watchpicker/services/tracker/internal/kv"
)

// ErrNotInitialized is the panic value when a Tracker is used without New.
var ErrNotInitialized = errors.New("watchlist: tracker used outside its initialization scope")

type Options struct {
	// Store is the durable medium, usually a *syncbus.Storage.
	Store  kv.Store
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// OnPersist, when set, sees the outcome of every background write.
	OnPersist func(Outcome)
}

// Tracker owns both collections. Mutations apply to memory immediately
// and reach durable storage in the background.
type Tracker struct {
	mu        sync.Mutex
	watchlist []WatchlistEntry
	watched   []WatchedEntry

	store   *adapter
	persist *persister
	now     func() time.Time
	log     *zap.Logger
	ready   bool

	unsubscribe func()
}

// New hydrates a Tracker from opts.Store. Corrupt or unreadable stored
// collections start empty; only a missing store is an error.
func New(ctx context.Context, opts Options) (*Tracker, error) {
	if opts.Store == nil {
		return nil, errors.New("watchlist: store is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	a := &adapter{store: opts.Store, log: log}
	watchlist, wlOut := loadCollection[WatchlistEntry](ctx, a, WatchlistKey)
	watched, wOut := loadCollection[WatchedEntry](ctx, a, WatchedKey)
	log.Info("tracker hydrated",
		zap.Int("watchlist", len(watchlist)), zap.Stringer("watchlist_outcome", wlOut.Kind),
		zap.Int("watched", len(watched)), zap.Stringer("watched_outcome", wOut.Kind),
	)

	return &Tracker{
		watchlist: watchlist,
		watched:   watched,
		store:     a,
		persist:   newPersister(a, opts.OnPersist),
		now:       now,
		log:       log,
		ready:     true,
	}, nil
}

func (t *Tracker) mustBeReady() {
	if t == nil || !t.ready {
		panic(ErrNotInitialized)
	}
}

func (t *Tracker) stamp() int64 {
	return t.now().UnixMilli()
}

// AddToWatchlist prepends item unless its id is already present; a
// duplicate keeps the original AddedAt.
func (t *Tracker) AddToWatchlist(item Item) {
	t.mustBeReady()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.addToWatchlistLocked(item, t.stamp()) {
		t.persistWatchlistLocked()
	}
}

func (t *Tracker) RemoveFromWatchlist(id string) {
	t.mustBeReady()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.watchlist = filter(t.watchlist, func(e WatchlistEntry) bool { return e.ID != id })
	t.persistWatchlistLocked()
}

func (t *Tracker) IsInWatchlist(id string) bool {
	t.mustBeReady()
	t.mu.Lock()
	defer t.mu.Unlock()
	return indexOf(t.watchlist, func(e WatchlistEntry) bool { return e.ID == id }) >= 0
}

func (t *Tracker) ClearWatchlist() {
	t.mustBeReady()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.watchlist = []WatchlistEntry{}
	t.persistWatchlistLocked()
}

// MarkAsWatched records item in the watched history. A tv item is also
// added to the watchlist when missing there, so a series stays on hand for
// its next episodes.
func (t *Tracker) MarkAsWatched(item Item) {
	t.mustBeReady()
	t.mu.Lock()
	defer t.mu.Unlock()

	at := t.stamp()
	if indexOf(t.watched, func(e WatchedEntry) bool { return e.ID == item.ID }) < 0 {
		t.watched = prepend(t.watched, item.watchedEntry(at))
		t.persistWatchedLocked()
	}
	if item.Category == CategoryTV && t.addToWatchlistLocked(item, at) {
		t.persistWatchlistLocked()
	}
}

// RemoveFromWatched leaves the watchlist untouched.
func (t *Tracker) RemoveFromWatched(id string) {
	t.mustBeReady()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.watched = filter(t.watched, func(e WatchedEntry) bool { return e.ID != id })
	t.persistWatchedLocked()
}

func (t *Tracker) IsWatched(id string) bool {
	t.mustBeReady()
	t.mu.Lock()
	defer t.mu.Unlock()
	return indexOf(t.watched, func(e WatchedEntry) bool { return e.ID == id }) >= 0
}

// Watchlist returns a copy of the watchlist, newest first.
func (t *Tracker) Watchlist() []WatchlistEntry {
	t.mustBeReady()
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]WatchlistEntry{}, t.watchlist...)
}

// Watched returns a copy of the watched history, newest first.
func (t *Tracker) Watched() []WatchedEntry {
	t.mustBeReady()
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]WatchedEntry{}, t.watched...)
}

// Flush waits until every mutation made so far has been handed to storage.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mustBeReady()
	return t.persist.flush(ctx)
}

// Close stops following other contexts and writes out pending snapshots.
// The store itself is left open for its owner to close.
func (t *Tracker) Close(ctx context.Context) error {
	t.mustBeReady()
	t.mu.Lock()
	unsub := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	return t.persist.stop(ctx)
}

func (t *Tracker) addToWatchlistLocked(item Item, at int64) bool {
	if indexOf(t.watchlist, func(e WatchlistEntry) bool { return e.ID == item.ID }) >= 0 {
		return false
	}
	t.watchlist = prepend(t.watchlist, item.watchlistEntry(at))
	return true
}

// Snapshots are queued while mu is held so they reach the persister in
// mutation order.
func (t *Tracker) persistWatchlistLocked() {
	t.persist.enqueue(WatchlistKey, append([]WatchlistEntry{}, t.watchlist...))
}

func (t *Tracker) persistWatchedLocked() {
	t.persist.enqueue(WatchedKey, append([]WatchedEntry{}, t.watched...))
}

func prepend[T any](s []T, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, v)
	return append(out, s...)
}

func filter[T any](s []T, keep func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func indexOf[T any](s []T, match func(T) bool) int {
	for i, v := range s {
		if match(v) {
			return i
		}
	}
	return -1
}
