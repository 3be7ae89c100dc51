package router

import "go.uber.org/zap"

// AnomalyPolicy decides what happens when a captured behavior returns a
// state other than Continue or End from UpdateCapture.
type AnomalyPolicy uint8

const (
	// AnomalyForceEnd reports the anomaly, force-ends the capture and
	// returns the side to idle.
	AnomalyForceEnd AnomalyPolicy = iota
	// AnomalyPreserve reports the anomaly and keeps the capture active.
	AnomalyPreserve
)

// String returns a string representation of the policy.
func (p AnomalyPolicy) String() string {
	switch p {
	case AnomalyForceEnd:
		return "force-end"
	case AnomalyPreserve:
		return "preserve"
	default:
		return "unknown"
	}
}

// ParseAnomalyPolicy parses "force-end" or "preserve". It returns false for
// anything else.
func ParseAnomalyPolicy(s string) (AnomalyPolicy, bool) {
	switch s {
	case "force-end", "":
		return AnomalyForceEnd, true
	case "preserve":
		return AnomalyPreserve, true
	default:
		return AnomalyForceEnd, false
	}
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l.With(zap.String("component", "router"))
		}
	}
}

// WithMetrics attaches a metrics tracker.
func WithMetrics(m *Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// WithAutoInvalidateOnHover posts an invalidation whenever hover state
// changes.
func WithAutoInvalidateOnHover(on bool) Option {
	return func(r *Router) {
		r.autoInvalidateOnHover = on
	}
}

// WithAutoInvalidateOnCapture posts an invalidation after every event
// handled by a capture.
func WithAutoInvalidateOnCapture(on bool) Option {
	return func(r *Router) {
		r.autoInvalidateOnCapture = on
	}
}

// WithCaptureAnomalyPolicy sets the anomaly policy. The default is
// AnomalyForceEnd.
func WithCaptureAnomalyPolicy(p AnomalyPolicy) Option {
	return func(r *Router) {
		r.anomalyPolicy = p
	}
}
