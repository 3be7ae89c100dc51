package router

import (
	"sync/atomic"
	"time"
)

// Metrics tracks router activity.
//
// Counters are atomic so a host may read them from a different goroutine
// than the one driving the router.
type Metrics struct {
	// Event counters
	eventsTotal      atomic.Uint64
	hoverEventsTotal atomic.Uint64
	droppedEvents    atomic.Uint64

	// Capture counters
	capturesBegun  atomic.Uint64
	capturesEnded  atomic.Uint64
	capturesForced atomic.Uint64
	anomalies      atomic.Uint64

	// Hover counters
	hoverChanges atomic.Uint64

	startTime time.Time
	enabled   atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsEnabled() bool {
	return m.enabled.Load()
}

func (m *Metrics) add(c *atomic.Uint64) {
	if m == nil || !m.enabled.Load() {
		return
	}
	c.Add(1)
}

// RecordEvent records an event accepted by PostInputEvent.
func (m *Metrics) RecordEvent() {
	if m != nil {
		m.add(&m.eventsTotal)
	}
}

// RecordHoverEvent records an event accepted by PostHoverInputEvent.
func (m *Metrics) RecordHoverEvent() {
	if m != nil {
		m.add(&m.hoverEventsTotal)
	}
}

// RecordDroppedEvent records an event that was not dispatched.
func (m *Metrics) RecordDroppedEvent() {
	if m != nil {
		m.add(&m.droppedEvents)
	}
}

// RecordCaptureBegun records a capture taking a slot.
func (m *Metrics) RecordCaptureBegun() {
	if m != nil {
		m.add(&m.capturesBegun)
	}
}

// RecordCaptureEnded records a capture ending on its own.
func (m *Metrics) RecordCaptureEnded() {
	if m != nil {
		m.add(&m.capturesEnded)
	}
}

// RecordCaptureForced records a capture ended by the router.
func (m *Metrics) RecordCaptureForced() {
	if m != nil {
		m.add(&m.capturesForced)
	}
}

// RecordAnomaly records an unexpected capture state.
func (m *Metrics) RecordAnomaly() {
	if m != nil {
		m.add(&m.anomalies)
	}
}

// RecordHoverChange records a hover owner change.
func (m *Metrics) RecordHoverChange() {
	if m != nil {
		m.add(&m.hoverChanges)
	}
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	// Counters
	EventsTotal      uint64
	HoverEventsTotal uint64
	DroppedEvents    uint64
	CapturesBegun    uint64
	CapturesEnded    uint64
	CapturesForced   uint64
	Anomalies        uint64
	HoverChanges     uint64

	// Rates
	EventsPerSecond float64

	// Uptime
	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	events := m.eventsTotal.Load()
	uptime := time.Since(m.startTime)

	snap := MetricsSnapshot{
		EventsTotal:      events,
		HoverEventsTotal: m.hoverEventsTotal.Load(),
		DroppedEvents:    m.droppedEvents.Load(),
		CapturesBegun:    m.capturesBegun.Load(),
		CapturesEnded:    m.capturesEnded.Load(),
		CapturesForced:   m.capturesForced.Load(),
		Anomalies:        m.anomalies.Load(),
		HoverChanges:     m.hoverChanges.Load(),
		Uptime:           uptime,
	}
	if uptime > 0 {
		snap.EventsPerSecond = float64(events) / uptime.Seconds()
	}
	return snap
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.eventsTotal.Store(0)
	m.hoverEventsTotal.Store(0)
	m.droppedEvents.Store(0)
	m.capturesBegun.Store(0)
	m.capturesEnded.Store(0)
	m.capturesForced.Store(0)
	m.anomalies.Store(0)
	m.hoverChanges.Store(0)
	m.startTime = time.Now()
}

// ActiveCaptures returns begun captures that have not yet ended or been
// forced.
func (m *Metrics) ActiveCaptures() uint64 {
	return m.capturesBegun.Load() - m.capturesEnded.Load() - m.capturesForced.Load()
}
