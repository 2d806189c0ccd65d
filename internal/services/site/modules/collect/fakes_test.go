package collect

import (
	"context"
	"sync"

	"github.com/lumastack/lumastack.com/internal/analytics"
)

// fakeMilestones dedupes in memory the way the session store does.
type fakeMilestones struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (f *fakeMilestones) MarkEngagementMilestone(_ context.Context, sessionID, pagePath, milestone string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	key := sessionID + "|" + pagePath + "|" + milestone
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

type fakeCapturer struct {
	mu       sync.Mutex
	events   []analytics.Event
	disabled bool
}

func (f *fakeCapturer) Capture(_ context.Context, evt analytics.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeCapturer) Disabled() bool { return f.disabled }

func (f *fakeCapturer) captured() []analytics.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]analytics.Event(nil), f.events...)
}
