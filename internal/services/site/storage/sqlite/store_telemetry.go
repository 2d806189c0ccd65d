package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lumastack/lumastack.com/internal/telemetry"
)

const (
	// telemetryRetention bounds how long operational events are kept.
	telemetryRetention = 30 * 24 * time.Hour
	// milestoneRetention keeps dedupe rows well past the session window.
	milestoneRetention = 48 * time.Hour
)

// AppendTelemetryEvent records an operational event, pruning expired rows.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt telemetry.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.EventName) == "" {
		return fmt.Errorf("event name is required")
	}
	if strings.TrimSpace(string(evt.Severity)) == "" {
		return fmt.Errorf("severity is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if len(evt.AttributesJSON) == 0 && len(evt.Attributes) > 0 {
		payload, err := json.Marshal(evt.Attributes)
		if err != nil {
			return fmt.Errorf("marshal telemetry attributes: %w", err)
		}
		evt.AttributesJSON = payload
	}

	if _, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO telemetry_events (
		    timestamp, event_name, severity, component, locale, path,
		    visitor_id, request_id, trace_id, span_id, attributes_json
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		timeToUnixMillis(evt.Timestamp),
		evt.EventName,
		string(evt.Severity),
		evt.Component,
		evt.Locale,
		evt.Path,
		evt.VisitorID,
		evt.RequestID,
		evt.TraceID,
		evt.SpanID,
		evt.AttributesJSON,
	); err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}

	cutoff := timeToUnixMillis(evt.Timestamp.Add(-telemetryRetention))
	if _, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM telemetry_events WHERE timestamp < ?`,
		cutoff,
	); err != nil {
		return fmt.Errorf("prune telemetry events: %w", err)
	}
	return nil
}

// MarkEngagementMilestone records a milestone once per session and page.
// The bool reports whether this call was the first sighting.
func (s *Store) MarkEngagementMilestone(ctx context.Context, sessionID, pagePath, milestone string) (bool, error) {
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, fmt.Errorf("session id is required")
	}
	pagePath = strings.TrimSpace(pagePath)
	if pagePath == "" {
		return false, fmt.Errorf("page path is required")
	}
	milestone = strings.TrimSpace(milestone)
	if milestone == "" {
		return false, fmt.Errorf("milestone is required")
	}

	now := time.Now().UTC()
	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO engagement_milestones (session_id, page_path, milestone, recorded_at)
		 VALUES (?, ?, ?, ?)`,
		sessionID,
		pagePath,
		milestone,
		timeToUnixMillis(now),
	)
	if err != nil {
		return false, fmt.Errorf("mark engagement milestone: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark engagement milestone result: %w", err)
	}

	cutoff := timeToUnixMillis(now.Add(-milestoneRetention))
	if _, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM engagement_milestones WHERE recorded_at < ?`,
		cutoff,
	); err != nil {
		return false, fmt.Errorf("prune engagement milestones: %w", err)
	}
	return affected > 0, nil
}
