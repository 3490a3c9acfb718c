package prom

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nascheme/go-threadx/threadx"
)

func TestObserverCountsCleanScope(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	obs := New(reg)

	err := threadx.Run(func(m *threadx.Manager) error {
		s, err := m.NewSet(3, func(int) {})
		if err != nil {
			return err
		}
		return s.Start()
	}, threadx.WithObserver(obs))
	if err != nil {
		t.Fatalf("scope failed: %v", err)
	}

	if got := testutil.ToFloat64(obs.handlesCreated); got != 3 {
		t.Fatalf("handles_created=%v, want 3", got)
	}
	if got := testutil.ToFloat64(obs.handlesStarted); got != 3 {
		t.Fatalf("handles_started=%v, want 3", got)
	}
	if got := testutil.ToFloat64(obs.handlesFinished); got != 3 {
		t.Fatalf("handles_finished=%v, want 3", got)
	}
	if got := testutil.ToFloat64(obs.aliveHandles); got != 0 {
		t.Fatalf("handles_alive=%v, want 0 after sweep", got)
	}
	if got := testutil.ToFloat64(obs.sweeps); got != 1 {
		t.Fatalf("join_sweeps=%v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.sweepStragglers); got != 0 {
		t.Fatalf("sweep_stragglers=%v, want 0", got)
	}
}

func TestObserverCountsStragglers(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	obs := New(reg)
	release := make(chan struct{})
	var blocked *threadx.Handle

	err := threadx.Run(func(m *threadx.Manager) error {
		h, err := m.Go(func() { <-release })
		if err != nil {
			return err
		}
		blocked = h
		return h.Start()
	}, threadx.WithObserver(obs), threadx.WithJoinTimeout(10*time.Millisecond))

	var jte *threadx.JoinTimeoutError
	if !errors.As(err, &jte) {
		t.Fatalf("expected join timeout, got %v", err)
	}
	if got := testutil.ToFloat64(obs.sweepStragglers); got != 1 {
		t.Fatalf("sweep_stragglers=%v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.aliveHandles); got != 1 {
		t.Fatalf("handles_alive=%v, want 1 while blocked", got)
	}

	close(release)
	if _, err := blocked.JoinTimeout(threadx.NoTimeout); err != nil {
		t.Fatalf("cleanup join: %v", err)
	}
	if got := testutil.ToFloat64(obs.aliveHandles); got != 0 {
		t.Fatalf("handles_alive=%v, want 0 after release", got)
	}
}

func TestRegistryExposition(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	obs := New(reg)
	err := threadx.Run(func(m *threadx.Manager) error {
		h, err := m.Go(func() {})
		if err != nil {
			return err
		}
		return h.Start()
	}, threadx.WithObserver(obs))
	if err != nil {
		t.Fatalf("scope failed: %v", err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) != 8 {
		t.Fatalf("gathered %d metric families, want 8", len(families))
	}
}
