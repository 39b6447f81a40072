package syncbus

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/watchpicker/services/tracker/internal/kv"
)

// Storage is a kv.Store bound to one execution context. Successful writes
// and removals are announced on the bus under the context's origin, so
// every other context sharing the store hears about them.
type Storage struct {
	kv.Store
	bus    Bus
	origin string
	log    *zap.Logger
}

func NewStorage(store kv.Store, bus Bus, origin string, log *zap.Logger) *Storage {
	if log == nil {
		log = zap.NewNop()
	}
	return &Storage{Store: store, bus: bus, origin: origin, log: log}
}

func (s *Storage) Origin() string { return s.origin }

func (s *Storage) Bus() Bus { return s.bus }

func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := s.Store.Set(ctx, key, value); err != nil {
		return err
	}
	v := value
	s.announce(ctx, Event{Key: key, NewValue: &v, Origin: s.origin})
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := s.Store.Remove(ctx, key); err != nil {
		return err
	}
	s.announce(ctx, Event{Key: key, Origin: s.origin})
	return nil
}

// announce is best effort: the write already landed, so a lost
// notification only leaves other contexts stale until their next reload.
func (s *Storage) announce(ctx context.Context, ev Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn("storage event not broadcast", zap.String("key", ev.Key), zap.Error(err))
	}
}
