// Package prom exports threadx lifecycle events as Prometheus metrics.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nascheme/go-threadx/threadx"
)

// Observer implements threadx.Observer over Prometheus collectors.
// Handle events fire from worker goroutines; the underlying collectors
// are concurrency-safe.
type Observer struct {
	handlesCreated  prometheus.Counter
	handlesStarted  prometheus.Counter
	handlesFinished prometheus.Counter
	aliveHandles    prometheus.Gauge
	handleDuration  prometheus.Histogram

	sweeps          prometheus.Counter
	sweepStragglers prometheus.Counter
	sweepWait       prometheus.Histogram
}

// New registers the threadx metric family with reg and returns the
// observer. Registering twice on the same registry panics, as usual for
// promauto.
func New(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)
	return &Observer{
		handlesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "threadx_handles_created_total",
			Help: "Handles created by managers.",
		}),
		handlesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "threadx_handles_started_total",
			Help: "Handles whose worker was started.",
		}),
		handlesFinished: factory.NewCounter(prometheus.CounterOpts{
			Name: "threadx_handles_finished_total",
			Help: "Handles whose worker has returned.",
		}),
		aliveHandles: factory.NewGauge(prometheus.GaugeOpts{
			Name: "threadx_handles_alive",
			Help: "Handles started and not yet finished.",
		}),
		handleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "threadx_handle_duration_seconds",
			Help:    "Worker run time from start to return.",
			Buckets: prometheus.DefBuckets,
		}),
		sweeps: factory.NewCounter(prometheus.CounterOpts{
			Name: "threadx_join_sweeps_total",
			Help: "Manager exit join sweeps.",
		}),
		sweepStragglers: factory.NewCounter(prometheus.CounterOpts{
			Name: "threadx_join_sweep_stragglers_total",
			Help: "Handles still running when their sweep's budget elapsed.",
		}),
		sweepWait: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "threadx_join_sweep_wait_seconds",
			Help:    "Wall time spent in exit join sweeps.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// HandleCreated records a factory creation.
func (o *Observer) HandleCreated(_ *threadx.Handle) {
	o.handlesCreated.Inc()
}

// HandleStarted records a worker start.
func (o *Observer) HandleStarted(_ *threadx.Handle) {
	o.handlesStarted.Inc()
	o.aliveHandles.Inc()
}

// HandleFinished records a worker return and its run time.
func (o *Observer) HandleFinished(_ *threadx.Handle, dur time.Duration) {
	o.handlesFinished.Inc()
	o.aliveHandles.Dec()
	o.handleDuration.Observe(dur.Seconds())
}

// SweepStarted records the beginning of an exit join sweep.
func (o *Observer) SweepStarted(_ int) {
	o.sweeps.Inc()
}

// SweepFinished records sweep wall time and any stragglers.
func (o *Observer) SweepFinished(wait time.Duration, stragglers int) {
	o.sweepWait.Observe(wait.Seconds())
	o.sweepStragglers.Add(float64(stragglers))
}
