package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	TodosCreated        uint64
	TodosUpdated        uint64
	TodosDeleted        uint64
	ListCacheHits       uint64
	ListCacheMisses     uint64
	ListDurationCount   uint64
	ListDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	todosCreated        uint64
	todosUpdated        uint64
	todosDeleted        uint64
	listCacheHits       uint64
	listCacheMisses     uint64
	listDurationCount   uint64
	listDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		TodosCreated:        atomic.LoadUint64(&m.todosCreated),
		TodosUpdated:        atomic.LoadUint64(&m.todosUpdated),
		TodosDeleted:        atomic.LoadUint64(&m.todosDeleted),
		ListCacheHits:       atomic.LoadUint64(&m.listCacheHits),
		ListCacheMisses:     atomic.LoadUint64(&m.listCacheMisses),
		ListDurationCount:   atomic.LoadUint64(&m.listDurationCount),
		ListDurationTotalNs: atomic.LoadInt64(&m.listDurationTotalNs),
	}
}

// IncTodoCreated increments the created counter.
func (m *InMemoryRecorder) IncTodoCreated() {
	atomic.AddUint64(&m.todosCreated, 1)
}

// IncTodoUpdated increments the updated counter.
func (m *InMemoryRecorder) IncTodoUpdated() {
	atomic.AddUint64(&m.todosUpdated, 1)
}

// IncTodoDeleted increments the deleted counter.
func (m *InMemoryRecorder) IncTodoDeleted() {
	atomic.AddUint64(&m.todosDeleted, 1)
}

// IncListCacheHit increments the list cache hit counter.
func (m *InMemoryRecorder) IncListCacheHit() {
	atomic.AddUint64(&m.listCacheHits, 1)
}

// IncListCacheMiss increments the list cache miss counter.
func (m *InMemoryRecorder) IncListCacheMiss() {
	atomic.AddUint64(&m.listCacheMisses, 1)
}

// ObserveListDuration records a list call duration.
func (m *InMemoryRecorder) ObserveListDuration(duration time.Duration) {
	atomic.AddUint64(&m.listDurationCount, 1)
	atomic.AddInt64(&m.listDurationTotalNs, duration.Nanoseconds())
}
