package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGoCollectsFirstError(t *testing.T) {
	s := New(context.Background())
	boom := errors.New("boom")
	s.Go("worker", func(ctx context.Context) error { return boom })
	s.Go0("quiet", func(ctx context.Context) {})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.Stop(ctx)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	s := New(context.Background(), WithCancelOnError(true))
	s.Go("panicky", func(ctx context.Context) error { panic("eek") })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.Wait(ctx)
	if err == nil {
		t.Fatalf("expected panic error")
	}
	select {
	case <-s.Context().Done():
	default:
		t.Fatalf("cancel-on-error did not cancel context")
	}
}

func TestContextCanceledIsClean(t *testing.T) {
	s := New(context.Background())
	s.Go("loop", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("clean shutdown returned %v", err)
	}
}
