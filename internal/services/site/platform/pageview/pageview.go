// Package pageview captures the server-side page view event shared by the
// page-serving modules.
package pageview

import (
	"context"
	"log"

	"github.com/lumastack/lumastack.com/internal/analytics"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
)

// Event is the analytics event name recorded for every rendered page.
const Event = "page_view"

// View describes one rendered page for capture.
type View struct {
	Path     string
	Title    string
	Locale   string
	Referrer string

	Visitor         module.Visitor
	Personalization module.Personalization
}

// Capture records the page view against the request's visitor. Capture is
// best effort: a nil or disabled capturer is skipped, and delivery failures
// are logged without affecting the response.
func Capture(ctx context.Context, capturer module.Capturer, view View, logger *log.Logger) {
	if capturer == nil || capturer.Disabled() {
		return
	}
	if logger == nil {
		logger = log.Default()
	}
	props := map[string]any{
		analytics.PropPagePath:   view.Path,
		analytics.PropPageTitle:  view.Title,
		"locale":                 view.Locale,
		analytics.PropSessionID:  view.Visitor.SessionID,
		"new_session":            view.Visitor.NewSession,
		analytics.PropVisitCount: view.Visitor.VisitCount,
	}
	if view.Personalization.Audience != "" {
		props[analytics.PropAudience] = view.Personalization.Audience
	}
	if view.Personalization.Region != "" {
		props[analytics.PropRegion] = view.Personalization.Region
	}
	if view.Referrer != "" {
		props["referrer"] = view.Referrer
	}
	err := capturer.Capture(ctx, analytics.Event{
		Name:       Event,
		DistinctID: view.Visitor.ID,
		Properties: props,
	})
	if err != nil {
		logger.Printf("page view capture failed path=%s err=%v", view.Path, err)
	}
}
