package collect

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/lumastack/lumastack.com/internal/analytics"
	apperrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

const (
	// MaxBatch bounds the milestones accepted from one beacon.
	MaxBatch = 50

	// MilestoneEvent is the analytics event captured for each milestone the
	// first time a session crosses it on a page.
	MilestoneEvent = "engagement_milestone"
)

// validMilestones is the closed set the client tracker reports: scroll depth
// quarters and time-on-page thresholds in seconds.
var validMilestones = map[string]bool{
	"scroll_25":  true,
	"scroll_50":  true,
	"scroll_75":  true,
	"scroll_100": true,
	"time_10":    true,
	"time_30":    true,
	"time_60":    true,
	"time_180":   true,
}

type service struct {
	deps   module.Dependencies
	logger *log.Logger
}

func newService(deps module.Dependencies) service {
	return service{deps: deps, logger: log.Default()}
}

// record validates one beacon batch and marks each milestone against the
// session. Only milestones newly crossed reach product analytics, so
// repeated beacons for the same page stay idempotent.
func (s service) record(ctx context.Context, v module.Visitor, page string, milestones []string) (int, error) {
	if s.deps.Milestones == nil {
		return 0, apperrors.New(apperrors.CodeStorageUnavailable, "milestone store is not configured")
	}
	if strings.TrimSpace(page) == "" {
		return 0, apperrors.New(apperrors.CodeCollectPageEmpty, "collect payload has no page")
	}
	if len(milestones) == 0 {
		return 0, apperrors.New(apperrors.CodeCollectPayloadInvalid, "collect payload has no milestones")
	}
	if len(milestones) > MaxBatch {
		return 0, apperrors.WithMetadata(apperrors.CodeCollectBatchTooLarge, "collect batch over limit", map[string]string{"size": strconv.Itoa(len(milestones))})
	}
	if v.SessionID == "" {
		return 0, apperrors.New(apperrors.CodeCollectSessionEmpty, "collect request has no session")
	}
	for _, milestone := range milestones {
		if !validMilestones[milestone] {
			return 0, apperrors.WithMetadata(apperrors.CodeCollectMilestoneUnknown, "unknown milestone "+milestone, map[string]string{"milestone": milestone})
		}
	}

	page = routepath.Normalize(page)
	accepted := 0
	for _, milestone := range milestones {
		fresh, err := s.deps.Milestones.MarkEngagementMilestone(ctx, v.SessionID, page, milestone)
		if err != nil {
			return accepted, err
		}
		if !fresh {
			continue
		}
		accepted++
		s.capture(ctx, v, page, milestone)
	}
	return accepted, nil
}

func (s service) capture(ctx context.Context, v module.Visitor, page, milestone string) {
	if s.deps.Capturer == nil || s.deps.Capturer.Disabled() {
		return
	}
	distinctID := v.ID
	if distinctID == "" {
		distinctID = analytics.AnonymousDistinctID
	}
	props := map[string]any{
		"milestone":             milestone,
		analytics.PropPagePath:  page,
		analytics.PropSessionID: v.SessionID,
	}
	if value, ok := strings.CutPrefix(milestone, "scroll_"); ok {
		if pct, err := strconv.Atoi(value); err == nil {
			props[analytics.PropScrollDepth] = pct
		}
	}
	if value, ok := strings.CutPrefix(milestone, "time_"); ok {
		if seconds, err := strconv.Atoi(value); err == nil {
			props[analytics.PropSecondsOnPage] = seconds
		}
	}
	err := s.deps.Capturer.Capture(ctx, analytics.Event{
		Name:       MilestoneEvent,
		DistinctID: distinctID,
		Properties: props,
	})
	if err != nil {
		s.logger.Printf("milestone capture failed milestone=%s path=%s err=%v", milestone, page, err)
	}
}
