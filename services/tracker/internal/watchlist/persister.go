package watchlist

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// persister writes collection snapshots in the background. Snapshots for
// the same key coalesce: only the latest one queued is written.
type persister struct {
	a *adapter

	mu      sync.Mutex
	pending map[string]any
	order   []string
	writing map[string]bool
	stopped bool

	// onSaved observes every write; tests use it to inspect outcomes.
	onSaved func(Outcome)

	wake    chan struct{}
	flushes chan chan struct{}
	quit    chan struct{}
	done    chan struct{}
}

func newPersister(a *adapter, onSaved func(Outcome)) *persister {
	p := &persister{
		a:       a,
		pending: make(map[string]any),
		writing: make(map[string]bool),
		onSaved: onSaved,
		wake:    make(chan struct{}, 1),
		flushes: make(chan chan struct{}),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// enqueue never blocks on storage.
func (p *persister) enqueue(key string, snapshot any) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.a.log.Debug("tracker closed, dropping snapshot", zap.String("key", key))
		return
	}
	if _, queued := p.pending[key]; !queued {
		p.order = append(p.order, key)
	}
	p.pending[key] = snapshot
	p.mu.Unlock()
	p.signal()
}

// supersede swaps a queued or in-flight write of key for snapshot, so an
// older local snapshot cannot land after a newer remote value. It does
// nothing when no write of key is outstanding.
func (p *persister) supersede(key string, snapshot any) bool {
	p.mu.Lock()
	_, queued := p.pending[key]
	if p.stopped || (!queued && !p.writing[key]) {
		p.mu.Unlock()
		return false
	}
	if !queued {
		p.order = append(p.order, key)
	}
	p.pending[key] = snapshot
	p.mu.Unlock()
	p.signal()
	return true
}

func (p *persister) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.drain()
		case ack := <-p.flushes:
			p.drain()
			close(ack)
		case <-p.quit:
			p.drain()
			return
		}
	}
}

func (p *persister) drain() {
	for {
		p.mu.Lock()
		if len(p.order) == 0 {
			p.mu.Unlock()
			return
		}
		order, pending := p.order, p.pending
		p.order, p.pending = nil, make(map[string]any)
		for _, key := range order {
			p.writing[key] = true
		}
		p.mu.Unlock()

		for _, key := range order {
			out := p.a.save(context.Background(), key, pending[key])
			p.mu.Lock()
			delete(p.writing, key)
			p.mu.Unlock()
			if p.onSaved != nil {
				p.onSaved(out)
			}
		}
	}
}

// flush returns once every snapshot queued before the call is written.
func (p *persister) flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case p.flushes <- ack:
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *persister) stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.quit)
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
