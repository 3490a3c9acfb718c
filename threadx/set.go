package threadx

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"time"
)

// Set is an unordered, duplicate-free collection of handles, keyed by
// identity. Set algebra is pure and only ever touches membership; thread
// state is changed exclusively by the bulk Start and Join operations.
// A Set never creates or destroys handles.
type Set struct {
	handles map[*Handle]struct{}
}

// NewSet builds a Set from the given handles, deduplicating by identity.
func NewSet(handles ...*Handle) *Set {
	s := &Set{handles: make(map[*Handle]struct{}, len(handles))}
	for _, h := range handles {
		s.handles[h] = struct{}{}
	}
	return s
}

// Collect materializes a Set from a lazily produced sequence of handles.
func Collect(seq iter.Seq[*Handle]) *Set {
	s := NewSet()
	for h := range seq {
		s.handles[h] = struct{}{}
	}
	return s
}

// Len returns the number of handles in the set.
func (s *Set) Len() int { return len(s.handles) }

// Contains reports whether h is a member.
func (s *Set) Contains(h *Handle) bool {
	_, ok := s.handles[h]
	return ok
}

// All returns a restartable iterator over the members, in no particular
// order.
func (s *Set) All() iter.Seq[*Handle] {
	return maps.Keys(s.handles)
}

// Handles returns a snapshot slice of the members, in no particular order.
func (s *Set) Handles() []*Handle {
	out := make([]*Handle, 0, len(s.handles))
	for h := range s.handles {
		out = append(out, h)
	}
	return out
}

// Add inserts h into the set. Adding an existing member is a no-op.
func (s *Set) Add(h *Handle) {
	s.handles[h] = struct{}{}
}

// Remove deletes h from the set. Removing a non-member is a no-op.
func (s *Set) Remove(h *Handle) {
	delete(s.handles, h)
}

// Update inserts every member of other into the set.
func (s *Set) Update(other *Set) {
	if other == nil {
		return
	}
	for h := range other.handles {
		s.handles[h] = struct{}{}
	}
}

// Union returns a new Set containing the members of both sets.
func (s *Set) Union(other *Set) *Set {
	out := NewSet()
	out.Update(s)
	out.Update(other)
	return out
}

// Intersect returns a new Set containing the members present in both sets.
func (s *Set) Intersect(other *Set) *Set {
	out := NewSet()
	if other == nil {
		return out
	}
	for h := range s.handles {
		if other.Contains(h) {
			out.handles[h] = struct{}{}
		}
	}
	return out
}

// Difference returns a new Set with the members of s not present in other.
func (s *Set) Difference(other *Set) *Set {
	out := NewSet()
	for h := range s.handles {
		if other == nil || !other.Contains(h) {
			out.handles[h] = struct{}{}
		}
	}
	return out
}

// SymmetricDifference returns a new Set with the members present in
// exactly one of the two sets.
func (s *Set) SymmetricDifference(other *Set) *Set {
	if other == nil {
		return s.Difference(nil)
	}
	return s.Difference(other).Union(other.Difference(s))
}

// SubsetOf reports whether every member of s is a member of other.
func (s *Set) SubsetOf(other *Set) bool {
	for h := range s.handles {
		if other == nil || !other.Contains(h) {
			return false
		}
	}
	return true
}

// SupersetOf reports whether every member of other is a member of s.
func (s *Set) SupersetOf(other *Set) bool {
	if other == nil {
		return true
	}
	return other.SubsetOf(s)
}

// Equal reports whether the two sets have identical membership.
func (s *Set) Equal(other *Set) bool {
	if other == nil {
		return len(s.handles) == 0
	}
	return len(s.handles) == len(other.handles) && s.SubsetOf(other)
}

// Alive returns a per-member liveness snapshot, in iteration order.
func (s *Set) Alive() []bool {
	out := make([]bool, 0, len(s.handles))
	for h := range s.handles {
		out = append(out, h.IsAlive())
	}
	return out
}

// Start starts every member. Individual failures (already started) do
// not stop the sweep: the remaining members are still attempted and the
// failures come back aggregated in a *StartError. A partially started
// set of cooperating workers is more useful for cleanup than an
// all-or-nothing abort.
func (s *Set) Start() error {
	var errs []error
	for h := range s.handles {
		if err := h.Start(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &StartError{Errs: errs}
}

// Join joins every member under one shared budget: the ctx deadline
// bounds the whole sweep, so the sum of the individual waits never
// exceeds it. It returns the set of members that did not finish in time
// (empty means all joined). Never-started members are reported via an
// aggregated error and excluded from the returned set.
func (s *Set) Join(ctx context.Context) (*Set, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	late := NewSet()
	var errs []error
	for h := range s.handles {
		err := h.Join(ctx)
		switch {
		case err == nil:
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
			late.Add(h)
		default:
			errs = append(errs, err)
		}
	}
	return late, errors.Join(errs...)
}

// JoinTimeout joins with a duration budget shared across the members.
// NoTimeout (any negative duration) waits indefinitely.
func (s *Set) JoinTimeout(d time.Duration) (*Set, error) {
	ctx := context.Background()
	if d >= 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	return s.Join(ctx)
}

// StartAndJoin starts every member, then joins them under the remaining
// ctx budget. Start failures surface after the join sweep so already
// running members are still waited for.
func (s *Set) StartAndJoin(ctx context.Context) (*Set, error) {
	startErr := s.Start()
	late, joinErr := s.Join(ctx)
	return late, errors.Join(startErr, joinErr)
}

// String describes the set for debugging.
func (s *Set) String() string {
	return fmt.Sprintf("threadx.Set(%d handles)", len(s.handles))
}
