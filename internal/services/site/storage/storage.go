// Package storage defines the persistence surface the site service depends
// on. The concrete implementation lives in the sqlite subpackage; tests use
// in-memory doubles.
package storage

import (
	"context"

	"github.com/lumastack/lumastack.com/internal/analytics"
	"github.com/lumastack/lumastack.com/internal/content"
	"github.com/lumastack/lumastack.com/internal/telemetry"
)

// MilestoneStore records engagement milestones at most once per session and
// page. Recorded reports whether this call was the first sighting.
type MilestoneStore interface {
	MarkEngagementMilestone(ctx context.Context, sessionID, pagePath, milestone string) (recorded bool, err error)
}

// Store aggregates every persistence concern of the site: the content cache,
// the analytics delivery spool, engagement milestone dedupe, and operational
// telemetry.
type Store interface {
	content.CacheStore
	analytics.SpoolStore
	telemetry.Store
	MilestoneStore

	Close() error
}
