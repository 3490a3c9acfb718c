package threadx

import "time"

// Observer receives lifecycle events from a Manager and the handles it
// creates. Implementations must be safe for concurrent use; handle
// events fire from the worker goroutines.
type Observer interface {
	HandleCreated(h *Handle)
	HandleStarted(h *Handle)
	HandleFinished(h *Handle, dur time.Duration)
	SweepStarted(pending int)
	SweepFinished(wait time.Duration, stragglers int)
}
