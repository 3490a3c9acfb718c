package threadx

import (
	"fmt"
	"sync"
	"time"
)

// State is a Manager's position in its Idle -> Active -> Closed lifecycle.
type State int

const (
	Idle State = iota
	Active
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures a Manager.
type Option func(*Options)

// Options holds Manager configuration.
type Options struct {
	JoinTimeout time.Duration
	Observer    Observer
}

func defaultOptions() Options { return Options{JoinTimeout: NoTimeout} }

// WithJoinTimeout sets the per-handle budget for the exit join sweep.
// The default is NoTimeout: the sweep waits indefinitely, so a worker
// that never returns blocks exit rather than leaking silently.
func WithJoinTimeout(d time.Duration) Option {
	return func(o *Options) { o.JoinTimeout = d }
}

// WithObserver attaches a lifecycle observer to the manager and to every
// handle it creates.
func WithObserver(obs Observer) Option {
	return func(o *Options) { o.Observer = obs }
}

// Manager is a scoped owner of handles. While its scope is active it
// acts as a factory; on exit it joins every handle it created, on every
// exit path, so no worker it spawned is ever left unjoined. Handles the
// caller already joined are swept as no-ops.
type Manager struct {
	opts Options
	obs  Observer

	mu      sync.Mutex
	state   State
	created []*Handle
}

// NewManager returns an Idle manager. Call Enter before creating
// handles, or use Run for a scope with guaranteed exit.
func NewManager(optFns ...Option) *Manager {
	m := &Manager{opts: defaultOptions()}
	for _, fn := range optFns {
		fn(&m.opts)
	}
	m.obs = m.opts.Observer
	return m
}

// State returns the manager's current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Enter activates the scope. A manager is not reentrant: entering an
// Active or Closed manager returns a *UsageError.
func (m *Manager) Enter() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Idle {
		return &UsageError{Op: "enter", Reason: "manager is " + m.state.String()}
	}
	m.state = Active
	return nil
}

// Go creates a new, not-yet-started Handle bound to fn, records it for
// the exit sweep, and returns it for the caller to start or group into
// Sets. It is only valid while the scope is Active.
func (m *Manager) Go(fn func(), optFns ...HandleOption) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Active {
		return nil, &UsageError{Op: "create", Reason: "manager is " + m.state.String()}
	}
	if m.obs != nil {
		optFns = append(optFns, withHandleObserver(m.obs))
	}
	h := NewHandle(fn, optFns...)
	m.created = append(m.created, h)
	if m.obs != nil {
		m.obs.HandleCreated(h)
	}
	return h, nil
}

// NewSet creates n recorded handles running fn with their index and
// groups them into a Set. A WithName option names the members with an
// index suffix.
func (m *Manager) NewSet(n int, fn func(i int), optFns ...HandleOption) (*Set, error) {
	set := NewSet()
	var base handleOptions
	for _, opt := range optFns {
		opt(&base)
	}
	for i := 0; i < n; i++ {
		perHandle := optFns
		if base.name != "" {
			perHandle = append(perHandle[:len(perHandle):len(perHandle)],
				WithName(fmt.Sprintf("%s-%d", base.name, i)))
		}
		h, err := m.Go(func() { fn(i) }, perHandle...)
		if err != nil {
			return nil, err
		}
		set.Add(h)
	}
	return set, nil
}

// Handles returns a snapshot Set of every handle the manager created.
func (m *Manager) Handles() *Set {
	m.mu.Lock()
	defer m.mu.Unlock()
	return NewSet(m.created...)
}

// Exit closes the scope and sweeps: every created handle still running
// is joined with the configured budget. The transition to Closed is
// unconditional.
//
// If bodyErr is non-nil the scope is exiting because of a failure in the
// body; the sweep is best-effort and bodyErr is returned unchanged so a
// join timeout never masks the real failure. On a clean exit, stragglers
// surface as a *JoinTimeoutError naming them. Exiting a non-Active
// manager returns a *UsageError.
func (m *Manager) Exit(bodyErr error) error {
	m.mu.Lock()
	if m.state != Active {
		m.mu.Unlock()
		return &UsageError{Op: "exit", Reason: "manager is " + m.state.String()}
	}
	m.state = Closed
	created := make([]*Handle, len(m.created))
	copy(created, m.created)
	m.mu.Unlock()

	pending := 0
	for _, h := range created {
		if h.IsAlive() {
			pending++
		}
	}
	if m.obs != nil {
		m.obs.SweepStarted(pending)
	}

	start := time.Now()
	late := NewSet()
	for _, h := range created {
		if !h.IsAlive() {
			// Unstarted or already finished; joining finished
			// handles again would be a no-op anyway.
			continue
		}
		finished, err := h.JoinTimeout(m.opts.JoinTimeout)
		if err != nil || !finished {
			late.Add(h)
		}
	}
	if m.obs != nil {
		m.obs.SweepFinished(time.Since(start), late.Len())
	}

	if bodyErr != nil {
		return bodyErr
	}
	if late.Len() > 0 {
		return &JoinTimeoutError{Stragglers: late}
	}
	return nil
}

// Run brackets body in a manager scope: Enter, run body with the manager
// as factory, Exit on every path. A panic in the body is re-raised after
// the best-effort sweep and is never masked by a sweep failure.
func Run(body func(m *Manager) error, optFns ...Option) (err error) {
	m := NewManager(optFns...)
	if enterErr := m.Enter(); enterErr != nil {
		return enterErr
	}
	defer func() {
		r := recover()
		exitErr := m.Exit(err)
		if r != nil {
			panic(r)
		}
		err = exitErr
	}()
	err = body(m)
	return err
}
