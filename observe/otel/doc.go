// Package otel provides an OpenTelemetry observer plugin for the threadx library.
// It emits span events (create, start, finish, join sweep) with low overhead.
package otel
