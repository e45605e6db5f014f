package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated         uint64
	UsersUpdated         uint64
	UsersDeleted         uint64
	AddressesUpdated     uint64
	RepliesOK            uint64
	RepliesCreated       uint64
	RepliesBadRequest    uint64
	RepliesNotFound      uint64
	RepliesInternalError uint64
	RepliesOther         uint64
	StoreDurationCount   uint64
	StoreDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics endpoint.
type InMemoryRecorder struct {
	usersCreated         uint64
	usersUpdated         uint64
	usersDeleted         uint64
	addressesUpdated     uint64
	repliesOK            uint64
	repliesCreated       uint64
	repliesBadRequest    uint64
	repliesNotFound      uint64
	repliesInternalError uint64
	repliesOther         uint64
	storeDurationCount   uint64
	storeDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:         atomic.LoadUint64(&m.usersCreated),
		UsersUpdated:         atomic.LoadUint64(&m.usersUpdated),
		UsersDeleted:         atomic.LoadUint64(&m.usersDeleted),
		AddressesUpdated:     atomic.LoadUint64(&m.addressesUpdated),
		RepliesOK:            atomic.LoadUint64(&m.repliesOK),
		RepliesCreated:       atomic.LoadUint64(&m.repliesCreated),
		RepliesBadRequest:    atomic.LoadUint64(&m.repliesBadRequest),
		RepliesNotFound:      atomic.LoadUint64(&m.repliesNotFound),
		RepliesInternalError: atomic.LoadUint64(&m.repliesInternalError),
		RepliesOther:         atomic.LoadUint64(&m.repliesOther),
		StoreDurationCount:   atomic.LoadUint64(&m.storeDurationCount),
		StoreDurationTotalNs: atomic.LoadInt64(&m.storeDurationTotalNs),
	}
}

// IncUserCreated increments user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserUpdated increments user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncUserDeleted increments user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncAddressUpdated increments address updated counter.
func (m *InMemoryRecorder) IncAddressUpdated() {
	atomic.AddUint64(&m.addressesUpdated, 1)
}

// IncReply counts an envelope reply by status.
func (m *InMemoryRecorder) IncReply(status int) {
	switch status {
	case http.StatusOK:
		atomic.AddUint64(&m.repliesOK, 1)
	case http.StatusCreated:
		atomic.AddUint64(&m.repliesCreated, 1)
	case http.StatusBadRequest:
		atomic.AddUint64(&m.repliesBadRequest, 1)
	case http.StatusNotFound:
		atomic.AddUint64(&m.repliesNotFound, 1)
	case http.StatusInternalServerError:
		atomic.AddUint64(&m.repliesInternalError, 1)
	default:
		atomic.AddUint64(&m.repliesOther, 1)
	}
}

// ObserveStoreDuration records the latency of a store call sequence.
func (m *InMemoryRecorder) ObserveStoreDuration(duration time.Duration) {
	atomic.AddUint64(&m.storeDurationCount, 1)
	atomic.AddInt64(&m.storeDurationTotalNs, duration.Nanoseconds())
}
