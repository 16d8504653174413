package telemetry

import (
	"sync"
	"time"
)

// HealthReport is the /healthz payload.
type HealthReport struct {
	Status        string `json:"status"`
	LastPublish   string `json:"lastPublish,omitempty"`
	LastError     string `json:"lastError,omitempty"`
	StoreReadable bool   `json:"storeReadable"`
}

// HealthTracker remembers the outcome of the latest widget publication and store probe.
type HealthTracker struct {
	mu            sync.RWMutex
	lastPublish   time.Time
	lastError     string
	storeReadable bool
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{storeReadable: true}
}

func (h *HealthTracker) RecordPublish(at time.Time, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.lastError = err.Error()
		return
	}
	h.lastPublish = at
	h.lastError = ""
}

func (h *HealthTracker) RecordStore(readable bool) {
	h.mu.Lock()
	h.storeReadable = readable
	h.mu.Unlock()
}

func (h *HealthTracker) Report() HealthReport {
	h.mu.RLock()
	defer h.mu.RUnlock()
	report := HealthReport{
		Status:        "ok",
		LastError:     h.lastError,
		StoreReadable: h.storeReadable,
	}
	if !h.lastPublish.IsZero() {
		report.LastPublish = h.lastPublish.UTC().Format(time.RFC3339)
	}
	if !h.storeReadable {
		report.Status = "degraded"
	}
	return report
}
