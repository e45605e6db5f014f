// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User metrics
	IncUserCreated()
	IncUserUpdated()
	IncUserDeleted()

	// Address metrics
	IncAddressUpdated()

	// Envelope outcomes, keyed by HTTP status
	IncReply(status int)

	// Store latency per service call
	ObserveStoreDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
