// Package analytics delivers product analytics events to the ingest API and
// evaluates feature flags for experiments. Capture is buffered: events queue
// while the client waits for readiness and flow out in batches. Missing
// credentials disable the whole layer without failing the site.
package analytics

import (
	"strings"
	"time"

	platformerrors "github.com/lumastack/lumastack.com/internal/platform/errors"
)

// Reserved property keys the site sets when capturing events.
const (
	PropPagePath      = "page_path"
	PropPageTitle     = "page_title"
	PropSessionID     = "session_id"
	PropVisitCount    = "visit_count"
	PropScrollDepth   = "scroll_depth_pct"
	PropSecondsOnPage = "seconds_on_page"
	PropExperiment    = "experiment"
	PropVariant       = "variant"
	PropAudience      = "audience"
	PropRegion        = "region"
)

// AnonymousDistinctID is used when no visitor identity is available.
const AnonymousDistinctID = "anonymous"

// Event is one analytics occurrence to deliver to the ingest API.
type Event struct {
	Name       string
	DistinctID string
	Timestamp  time.Time
	Properties map[string]any
}

// normalize validates the event and fills defaults, using now for a missing
// timestamp.
func (e Event) normalize(now time.Time) (Event, error) {
	if strings.TrimSpace(e.Name) == "" {
		return Event{}, platformerrors.New(platformerrors.CodeAnalyticsEventNameEmpty, "event name is required")
	}
	if strings.TrimSpace(e.DistinctID) == "" {
		e.DistinctID = AnonymousDistinctID
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	e.Timestamp = e.Timestamp.UTC()
	return e, nil
}

// wireEvent is the ingest API encoding of an event.
type wireEvent struct {
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Timestamp  time.Time      `json:"timestamp"`
	Properties map[string]any `json:"properties,omitempty"`
}

func toWire(events []Event) []wireEvent {
	out := make([]wireEvent, len(events))
	for i, e := range events {
		out[i] = wireEvent{
			Event:      e.Name,
			DistinctID: e.DistinctID,
			Timestamp:  e.Timestamp,
			Properties: e.Properties,
		}
	}
	return out
}
