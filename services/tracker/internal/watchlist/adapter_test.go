package watchlist

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/example/watchpicker/services/tracker/internal/kv"
)

func TestLoadCollection_Outcomes(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore(0)
	a := &adapter{store: store, log: zap.NewNop()}

	items, out := loadCollection[WatchlistEntry](ctx, a, WatchlistKey)
	if out.Kind != OutcomeAbsent || len(items) != 0 || out.Failed() {
		t.Fatalf("expected absent, got %v with %d items", out.Kind, len(items))
	}

	_ = store.Set(ctx, WatchlistKey, "")
	items, out = loadCollection[WatchlistEntry](ctx, a, WatchlistKey)
	if out.Kind != OutcomeAbsent || len(items) != 0 {
		t.Fatalf("expected empty value to load as absent, got %v with %d items", out.Kind, len(items))
	}
	if _, ok, _ := store.Get(ctx, WatchlistKey); !ok {
		t.Fatal("expected empty value to be left in place")
	}

	_ = store.Set(ctx, WatchlistKey, "null")
	items, out = loadCollection[WatchlistEntry](ctx, a, WatchlistKey)
	if out.Kind != OutcomeOK || items == nil || len(items) != 0 {
		t.Fatalf("expected null to load as an empty collection, got %v %v", out.Kind, items)
	}

	_ = store.Set(ctx, WatchlistKey, "not json")
	_, out = loadCollection[WatchlistEntry](ctx, a, WatchlistKey)
	if out.Kind != OutcomeCorrupt || out.Err == nil || !out.Failed() {
		t.Fatalf("expected corrupt outcome, got %+v", out)
	}
	if _, ok, _ := store.Get(ctx, WatchlistKey); ok {
		t.Fatal("expected corrupt value to be removed")
	}
}

func TestSave_Outcomes(t *testing.T) {
	ctx := context.Background()
	a := &adapter{store: kv.NewMemoryStore(64), log: zap.NewNop()}

	if out := a.save(ctx, WatchedKey, []WatchedEntry{}); out.Kind != OutcomeOK {
		t.Fatalf("expected ok, got %+v", out)
	}
	big := make([]WatchedEntry, 10)
	if out := a.save(ctx, WatchedKey, big); out.Kind != OutcomeWriteFailed {
		t.Fatalf("expected write failure over quota, got %+v", out)
	}
}

func TestOutcomeKindString(t *testing.T) {
	if OutcomeCorrupt.String() != "corrupt" || OutcomeKind(42).String() != "outcome(42)" {
		t.Fatalf("unexpected strings %q %q", OutcomeCorrupt, OutcomeKind(42))
	}
}
