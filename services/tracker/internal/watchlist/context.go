package watchlist

import "context"

type ctxKeyTracker struct{}

// NewContext returns ctx carrying t.
func NewContext(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, ctxKeyTracker{}, t)
}

// FromContext returns the tracker installed by NewContext. A missing
// tracker is a wiring bug, so it panics with ErrNotInitialized instead of
// handing back an empty one.
func FromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(ctxKeyTracker{}).(*Tracker)
	if t == nil {
		panic(ErrNotInitialized)
	}
	return t
}
