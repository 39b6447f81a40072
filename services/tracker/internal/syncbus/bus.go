// Package syncbus carries storage-change notifications between execution
// contexts that share one durable store. A notification never reaches the
// context that performed the write.
package syncbus

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Event announces that Key changed in durable storage. NewValue is nil when
// the key was removed.
type Event struct {
	Key      string  `json:"key"`
	NewValue *string `json:"new_value"`
	Origin   string  `json:"origin"`
}

// Handler receives events from other contexts.
type Handler func(Event)

// Bus fans storage events out to subscribers.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe registers h for events whose Origin differs from origin.
	Subscribe(origin string, h Handler) (unsubscribe func(), err error)
}

// NewOrigin mints an identifier for one execution context.
func NewOrigin() string {
	return uuid.NewString()
}

type subscriber struct {
	origin string
	h      Handler
}

// LocalBus delivers events in-process, synchronously on the publishing goroutine.
type LocalBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscriber
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[int]subscriber)}
}

func (b *LocalBus) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	targets := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.origin != ev.Origin {
			targets = append(targets, s.h)
		}
	}
	b.mu.RUnlock()

	for _, h := range targets {
		h(ev)
	}
	return nil
}

func (b *LocalBus) Subscribe(origin string, h Handler) (func(), error) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = subscriber{origin: origin, h: h}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}, nil
}
