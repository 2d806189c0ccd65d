// Package module defines the feature contract used by site composition.
package module

import (
	"context"
	"net/http"

	"github.com/lumastack/lumastack.com/internal/analytics"
	"github.com/lumastack/lumastack.com/internal/content"
	"github.com/lumastack/lumastack.com/internal/telemetry"
)

// Visitor identifies the anonymous browser behind a request.
type Visitor struct {
	// ID is the stable anonymous visitor id.
	ID string
	// SessionID identifies the current visit window.
	SessionID string
	// VisitCount is the number of sessions this visitor has started.
	VisitCount int
	// NewSession reports whether this request started a fresh session.
	NewSession bool
}

// Personalization carries the audience targeting resolved for a request.
type Personalization struct {
	Audience string
	Region   string
}

// ResolveVisitor resolves (and refreshes) visitor identity cookies.
type ResolveVisitor func(http.ResponseWriter, *http.Request) Visitor

// ResolvePersonalization resolves audience targeting for a request.
type ResolvePersonalization func(http.ResponseWriter, *http.Request) Personalization

// Capturer sends product analytics events. Implementations degrade to no-ops
// when the ingest API is not configured.
type Capturer interface {
	Capture(ctx context.Context, evt analytics.Event) error
	Disabled() bool
}

// ExperimentPicker selects sticky experiment variants with control fallback
// and records exposure events.
type ExperimentPicker interface {
	ChooseVariant(ctx context.Context, flagKey, distinctID string) string
	VariantContent(ctx context.Context, locale, listRef, variant string) (content.Item, bool)
	RecordExposure(ctx context.Context, distinctID, flagKey, variant string, properties map[string]any)
}

// MilestoneRecorder dedupes engagement milestones per session and page.
type MilestoneRecorder interface {
	MarkEngagementMilestone(ctx context.Context, sessionID, pagePath, milestone string) (bool, error)
}

// Dependencies carries shared contracts injected into modules at mount time.
type Dependencies struct {
	// Content serves published content, normally through the cache.
	Content content.Source
	// PreviewContent serves draft content and bypasses the cache. Nil when
	// preview mode is not configured.
	PreviewContent content.Source

	Capturer    Capturer
	Experiments ExperimentPicker
	Milestones  MilestoneRecorder
	Emitter     *telemetry.Emitter

	ResolveVisitor         ResolveVisitor
	ResolvePersonalization ResolvePersonalization

	// PreviewSecret signs and verifies preview tokens.
	PreviewSecret []byte

	// DefaultLocale is the locale served when the request does not pick one.
	DefaultLocale string
	// BaseURL is the canonical site origin, e.g. https://lumastack.com.
	BaseURL string
	// AssetVersion busts static asset caches across deploys.
	AssetVersion string
	// RobotsAllow permits crawling; staging deploys set it false.
	RobotsAllow bool
}

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by site composition.
type Module interface {
	ID() string
	Mount(deps Dependencies) (Mount, error)
}
