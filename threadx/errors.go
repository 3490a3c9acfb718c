package threadx

import (
	"fmt"
	"sort"
	"strings"
)

// UsageError reports programmer misuse of a handle or manager: double
// start, join before start, creating handles outside an active scope,
// re-entering a closed manager. It is never retried.
type UsageError struct {
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return "threadx: " + e.Op + ": " + e.Reason
}

// JoinTimeoutError is returned from a clean manager exit when one or more
// tracked handles did not finish within the join budget. It names the
// handles that were still running.
type JoinTimeoutError struct {
	Stragglers *Set
}

func (e *JoinTimeoutError) Error() string {
	names := make([]string, 0, e.Stragglers.Len())
	for h := range e.Stragglers.All() {
		names = append(names, h.Name())
	}
	sort.Strings(names)
	return fmt.Sprintf("threadx: %d handle(s) still running after join sweep: %s",
		len(names), strings.Join(names, ", "))
}

// StartError aggregates per-member failures from a bulk Set.Start. The
// bulk operation continues past individual failures and reports them all
// at once; Unwrap exposes the members to errors.Is and errors.As.
type StartError struct {
	Errs []error
}

func (e *StartError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("threadx: bulk start: %d handle(s) failed: %s",
		len(e.Errs), strings.Join(msgs, "; "))
}

func (e *StartError) Unwrap() []error { return e.Errs }
