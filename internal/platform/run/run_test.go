package run

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"
)

func TestUntil_ExitCodes(t *testing.T) {
	r := New(zap.NewNop())

	if code := r.Until(context.Background(), func(context.Context) error { return nil }); code != 0 {
		t.Fatalf("expected 0 on clean exit, got %d", code)
	}
	if code := r.Until(context.Background(), func(context.Context) error { return http.ErrServerClosed }); code != 0 {
		t.Fatalf("expected 0 on server closed, got %d", code)
	}
	if code := r.Until(context.Background(), func(context.Context) error { return errors.New("boom") }); code != 1 {
		t.Fatalf("expected 1 on error, got %d", code)
	}
}

func TestUntil_ContextCancelled(t *testing.T) {
	r := New(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := r.Until(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if code != 0 {
		t.Fatalf("expected 0 on signal, got %d", code)
	}
}

func TestGraceful_RunsAllSteps(t *testing.T) {
	r := New(zap.NewNop())
	var ran []int
	r.Graceful(
		func(context.Context) error { ran = append(ran, 1); return errors.New("first failed") },
		func(context.Context) error { ran = append(ran, 2); return nil },
	)
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 2 {
		t.Fatalf("expected both steps in order, got %v", ran)
	}
}
