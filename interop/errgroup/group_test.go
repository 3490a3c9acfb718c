package errgroup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWithContextHappy(t *testing.T) {
	t.Parallel()
	g, gctx := WithContext(context.Background())
	_ = gctx
	var ran atomic.Int32
	g.Go(func() error { ran.Add(1); return nil })
	g.Go(func() error {
		time.Sleep(10 * time.Millisecond)
		ran.Add(1)
		return nil
	})
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ran.Load(); got != 2 {
		t.Fatalf("ran=%d, want 2", got)
	}
}

func TestWithContextErrorCancels(t *testing.T) {
	t.Parallel()
	g, gctx := WithContext(context.Background())
	done := make(chan struct{})
	g.Go(func() error { return errors.New("boom") })
	g.Go(func() error {
		select {
		case <-gctx.Done():
			close(done)
			return nil
		case <-time.After(250 * time.Millisecond):
			t.Error("expected cancel propagation")
			return nil
		}
	})
	if err := g.Wait(); err == nil {
		t.Fatal("expected error")
	}
	select {
	case <-done:
	case <-time.After(150 * time.Millisecond):
		t.Fatal("ctx was not canceled")
	}
}

func TestWithContextParentDeadline(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	g, gctx := WithContext(ctx)
	g.Go(func() error {
		// cooperative task: observe context cancellation
		<-gctx.Done()
		return gctx.Err()
	})
	err := g.Wait()
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestWithContextParentCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := WithContext(ctx)
	g.Go(func() error {
		// cooperative task: observe context cancellation
		<-gctx.Done()
		return gctx.Err()
	})
	cancel()
	err := g.Wait()
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGoAfterWaitIgnored(t *testing.T) {
	t.Parallel()
	g, _ := WithContext(context.Background())
	g.Go(func() error { return nil })
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g.Go(func() error {
		t.Error("task submitted after Wait ran")
		return nil
	})
	if err := g.Wait(); err != nil {
		t.Fatalf("repeated Wait returned %v", err)
	}
}
