package otel

import (
	"time"

	"github.com/nascheme/go-threadx/threadx"
)

// Nop is a no-op implementation of the threadx.Observer interface.
// It serves as a placeholder for an OpenTelemetry-backed observer without adding dependencies.
type Nop struct{}

// NewNop returns a no-op observer.
func NewNop() *Nop { return &Nop{} }

func (*Nop) HandleCreated(*threadx.Handle)                  {}
func (*Nop) HandleStarted(*threadx.Handle)                  {}
func (*Nop) HandleFinished(*threadx.Handle, time.Duration)  {}
func (*Nop) SweepStarted(int)                               {}
func (*Nop) SweepFinished(time.Duration, int)               {}
