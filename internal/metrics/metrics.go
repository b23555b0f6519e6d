// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Todo store metrics
	IncTodoCreated()
	IncTodoUpdated()
	IncTodoDeleted()

	// List path metrics
	IncListCacheHit()
	IncListCacheMiss()
	ObserveListDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
