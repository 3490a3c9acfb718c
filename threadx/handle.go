package threadx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// NoTimeout makes the duration-based join helpers wait indefinitely.
const NoTimeout time.Duration = -1

var handleSeq atomic.Int64

// Handle wraps one goroutine bound to a worker function. The handle is
// the synchronization boundary for its worker: Start, Join and IsAlive
// are safe under concurrent calls from any number of observers, so a
// handle may be shared freely across Sets and a Manager.
type Handle struct {
	fn      func()
	name    string
	created time.Time
	obs     Observer
	done    chan struct{}

	mu      sync.Mutex
	started bool
}

// HandleOption configures a new Handle.
type HandleOption func(*handleOptions)

type handleOptions struct {
	name string
	obs  Observer
}

// WithName sets the handle's name, used in JoinTimeoutError reports.
func WithName(name string) HandleOption {
	return func(o *handleOptions) { o.name = name }
}

func withHandleObserver(obs Observer) HandleOption {
	return func(o *handleOptions) { o.obs = obs }
}

// NewHandle wraps fn in a not-yet-started Handle. A nil fn yields a
// worker that returns immediately.
func NewHandle(fn func(), optFns ...HandleOption) *Handle {
	var o handleOptions
	for _, opt := range optFns {
		opt(&o)
	}
	if o.name == "" {
		o.name = fmt.Sprintf("thread-%d", handleSeq.Add(1))
	}
	return &Handle{
		fn:      fn,
		name:    o.name,
		created: time.Now(),
		obs:     o.obs,
		done:    make(chan struct{}),
	}
}

// Name returns the handle's name.
func (h *Handle) Name() string { return h.name }

// CreatedAt returns when the handle was constructed.
func (h *Handle) CreatedAt() time.Time { return h.created }

// Done returns a channel closed when the worker has returned.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Start begins execution of the bound worker on a new goroutine and
// returns immediately. A handle starts at most once; a second call
// returns a *UsageError.
func (h *Handle) Start() error {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return &UsageError{Op: "start " + h.name, Reason: "already started"}
	}
	h.started = true
	h.mu.Unlock()

	if h.obs != nil {
		h.obs.HandleStarted(h)
	}
	start := time.Now()
	go func() {
		defer func() {
			// Fire the hook before closing done so a joiner never
			// observes completion ahead of the observer.
			if h.obs != nil {
				h.obs.HandleFinished(h, time.Since(start))
			}
			close(h.done)
		}()
		if h.fn != nil {
			h.fn()
		}
	}()
	return nil
}

// Join blocks until the worker has returned or ctx is done. It returns
// nil once the worker finished and ctx.Err() if the wait was cut short;
// the worker itself is never interrupted. Joining a never-started handle
// returns a *UsageError. Join is idempotent: once the worker is known to
// have finished, every later call returns nil without blocking, even
// with an already-expired ctx.
func (h *Handle) Join(ctx context.Context) error {
	h.mu.Lock()
	started := h.started
	h.mu.Unlock()
	if !started {
		return &UsageError{Op: "join " + h.name, Reason: "not started"}
	}
	select {
	case <-h.done:
		return nil
	default:
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// JoinTimeout joins with a duration budget. NoTimeout (any negative
// duration) waits indefinitely. It reports whether the worker finished
// within the budget; expiry is not an error, only misuse is.
func (h *Handle) JoinTimeout(d time.Duration) (bool, error) {
	ctx := context.Background()
	if d >= 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	err := h.Join(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return false, nil
	default:
		return false, err
	}
}

// IsAlive reports whether the worker has been started and has not yet
// returned. It never blocks.
func (h *Handle) IsAlive() bool {
	h.mu.Lock()
	started := h.started
	h.mu.Unlock()
	if !started {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}
