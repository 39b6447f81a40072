package syncbus

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSBus broadcasts storage events on a core NATS subject. Delivery is
// at-most-once and unordered across publishers, which is all the tracker
// relies on.
type NATSBus struct {
	nc      *nats.Conn
	subject string
	log     *zap.Logger
}

// NewNATSBus publishes on "<prefix>.storage". The caller owns nc.
func NewNATSBus(nc *nats.Conn, prefix string, log *zap.Logger) *NATSBus {
	if prefix == "" {
		prefix = "watchpicker"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &NATSBus{nc: nc, subject: prefix + ".storage", log: log}
}

func (b *NATSBus) Subject() string { return b.subject }

func (b *NATSBus) Publish(_ context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal storage event: %w", err)
	}
	if err := b.nc.Publish(b.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", b.subject, err)
	}
	return nil
}

func (b *NATSBus) Subscribe(origin string, h Handler) (func(), error) {
	sub, err := b.nc.Subscribe(b.subject, func(m *nats.Msg) {
		var ev Event
		if err := json.Unmarshal(m.Data, &ev); err != nil {
			b.log.Warn("dropping malformed storage event", zap.String("subject", m.Subject), zap.Error(err))
			return
		}
		if ev.Origin == origin {
			return
		}
		h(ev)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", b.subject, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}
