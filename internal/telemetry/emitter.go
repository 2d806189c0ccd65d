// Package telemetry records operational observations emitted while serving
// site traffic, such as content fetch failures and analytics delivery
// problems. Records land in local storage for audits and incident analysis.
package telemetry

import (
	"context"
	"time"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Event captures a single operational observation.
type Event struct {
	Timestamp      time.Time
	EventName      string
	Severity       Severity
	Component      string
	Locale         string
	Path           string
	VisitorID      string
	RequestID      string
	TraceID        string
	SpanID         string
	Attributes     map[string]any
	AttributesJSON []byte
}

// Store persists telemetry records.
type Store interface {
	AppendTelemetryEvent(ctx context.Context, evt Event) error
}

// Emitter records operational telemetry events.
type Emitter struct {
	store Store
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store Store) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}
