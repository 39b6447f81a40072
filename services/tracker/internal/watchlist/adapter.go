package watchlist

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/example/watchpicker/internal/platform/metrics"
	"github.com/example/watchpicker/services/tracker/internal/kv"
)

// OutcomeKind classifies what happened to one storage operation.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeAbsent
	OutcomeCorrupt
	OutcomeReadFailed
	OutcomeWriteFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeAbsent:
		return "absent"
	case OutcomeCorrupt:
		return "corrupt"
	case OutcomeReadFailed:
		return "read_failed"
	case OutcomeWriteFailed:
		return "write_failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the result of a storage operation. Failures are contained
// here: the adapter logs them and the tracker carries on from memory.
type Outcome struct {
	Kind OutcomeKind
	Key  string
	Err  error
}

// Failed reports whether durability was lost or data discarded.
func (o Outcome) Failed() bool {
	return o.Kind != OutcomeOK && o.Kind != OutcomeAbsent
}

// adapter maps collections to JSON values in a kv.Store.
type adapter struct {
	store kv.Store
	log   *zap.Logger
}

// loadCollection reads key. A missing or empty value or an unreadable store
// yields an empty collection; a value that does not parse is erased.
func loadCollection[T any](ctx context.Context, a *adapter, key string) ([]T, Outcome) {
	raw, ok, err := a.store.Get(ctx, key)
	if err != nil {
		a.log.Warn("failed to read collection, starting empty", zap.String("key", key), zap.Error(err))
		metrics.StorageFailures.WithLabelValues(key, "read").Inc()
		return []T{}, Outcome{Kind: OutcomeReadFailed, Key: key, Err: err}
	}
	if !ok || raw == "" {
		return []T{}, Outcome{Kind: OutcomeAbsent, Key: key}
	}
	items, err := parseCollection[T](raw)
	if err != nil {
		return []T{}, a.discard(ctx, key, "load", err)
	}
	return items, Outcome{Kind: OutcomeOK, Key: key}
}

// parseCollection decodes a JSON array. A JSON null decodes to an empty collection.
func parseCollection[T any](raw string) ([]T, error) {
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// discard erases a corrupt value so the next load starts clean.
func (a *adapter) discard(ctx context.Context, key, source string, cause error) Outcome {
	a.log.Warn("corrupted collection data, clearing",
		zap.String("key", key), zap.String("source", source), zap.Error(cause))
	metrics.CorruptRecords.WithLabelValues(key, source).Inc()
	if err := a.store.Remove(ctx, key); err != nil {
		a.log.Warn("failed to clear corrupted collection", zap.String("key", key), zap.Error(err))
		metrics.StorageFailures.WithLabelValues(key, "remove").Inc()
	}
	return Outcome{Kind: OutcomeCorrupt, Key: key, Err: cause}
}

// save writes v under key. A rejected write (quota, closed store) is
// logged and reported, never raised.
func (a *adapter) save(ctx context.Context, key string, v any) Outcome {
	data, err := json.Marshal(v)
	if err != nil {
		a.log.Error("failed to encode collection", zap.String("key", key), zap.Error(err))
		return Outcome{Kind: OutcomeWriteFailed, Key: key, Err: err}
	}
	if err := a.store.Set(ctx, key, string(data)); err != nil {
		a.log.Warn("failed to save collection (quota exceeded?)", zap.String("key", key), zap.Error(err))
		metrics.StorageFailures.WithLabelValues(key, "write").Inc()
		return Outcome{Kind: OutcomeWriteFailed, Key: key, Err: err}
	}
	return Outcome{Kind: OutcomeOK, Key: key}
}
