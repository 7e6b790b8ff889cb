package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type HealthStatus struct {
	Healthy         bool              `json:"healthy"`
	Running         bool              `json:"running"`
	QueueDepth      int               `json:"queue_depth"`
	QueueCapacity   int               `json:"queue_capacity"`
	EventsProcessed uint64            `json:"events_processed"`
	EventsDropped   uint64            `json:"events_dropped"`
	LastEventTime   time.Time         `json:"last_event_time"`
	NATSConnected   *bool             `json:"nats_connected,omitempty"`
	Sinks           []SinkStats       `json:"sinks,omitempty"`
	DroppedByType   map[string]uint64 `json:"dropped_by_type,omitempty"`
	Errors          []string          `json:"errors"`
}

type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

// DispatcherHealthChecker reports on a Dispatcher and, when set, its NATS link.
type DispatcherHealthChecker struct {
	dispatcher *Dispatcher
	counters   *Counters
	natsUp     func() bool
}

func NewDispatcherHealthChecker(d *Dispatcher, counters *Counters, natsUp func() bool) *DispatcherHealthChecker {
	return &DispatcherHealthChecker{dispatcher: d, counters: counters, natsUp: natsUp}
}

func (h *DispatcherHealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Healthy:       true,
		Running:       h.dispatcher.Running(),
		QueueDepth:    h.dispatcher.QueueDepth(),
		QueueCapacity: cap(h.dispatcher.queue),
		Errors:        []string{},
	}
	status.EventsProcessed, status.EventsDropped, status.LastEventTime = h.dispatcher.Stats()

	if !status.Running {
		status.Healthy = false
		status.Errors = append(status.Errors, "dispatcher not running")
	}

	if h.natsUp != nil {
		up := h.natsUp()
		status.NATSConnected = &up
		if !up {
			status.Healthy = false
			status.Errors = append(status.Errors, "NATS disconnected")
		}
	}

	// A nearly full queue still delivers, so it only warns.
	if status.QueueCapacity > 0 && status.QueueDepth*10 >= status.QueueCapacity*9 {
		status.Errors = append(status.Errors, fmt.Sprintf("queue nearly full: %d/%d", status.QueueDepth, status.QueueCapacity))
	}

	if h.counters != nil {
		status.Sinks, status.DroppedByType = h.counters.Snapshot()
	}
	return status
}

// HTTP handler helper
func (h *DispatcherHealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}
