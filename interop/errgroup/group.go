// Package errgroup provides an adapter that mimics golang.org/x/sync/errgroup
// semantics on top of threadx handles. It enables incremental migration of
// errgroup call sites without giving up the manager's join guarantees.
package errgroup

import (
	"context"
	"sync"

	"github.com/nascheme/go-threadx/threadx"
)

// Group is an errgroup-like wrapper over a threadx.Manager. The first
// non-nil error wins and cancels the group context.
type Group struct {
	m      *threadx.Manager
	cancel context.CancelFunc
	ctx    context.Context

	mu       sync.Mutex
	firstErr error
}

// WithContext creates a Group bound to ctx. The returned context is
// canceled when any function passed to Go returns a non-nil error, and
// when Wait returns.
func WithContext(ctx context.Context) (*Group, context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m := threadx.NewManager()
	// A fresh manager always enters cleanly.
	_ = m.Enter()
	g := &Group{m: m, cancel: cancel, ctx: ctx}
	return g, ctx
}

// Go starts a function on its own handle. It should return a non-nil
// error to signal failure. Calls after Wait are ignored.
func (g *Group) Go(f func() error) {
	if f == nil {
		return
	}
	h, err := g.m.Go(func() {
		if err := f(); err != nil {
			g.mu.Lock()
			if g.firstErr == nil {
				g.firstErr = err
			}
			g.mu.Unlock()
			g.cancel()
		}
	})
	if err != nil {
		return
	}
	_ = h.Start()
}

// Wait blocks until all functions have returned, then cancels the group
// context. It returns the first non-nil error or nil on success.
func (g *Group) Wait() error {
	// The manager's default join budget is unbounded, so the exit
	// sweep cannot time out; a repeated Wait sees the closed manager
	// and falls through to the recorded result.
	_ = g.m.Exit(nil)
	g.cancel()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.firstErr
}
