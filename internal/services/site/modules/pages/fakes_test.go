package pages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/lumastack/lumastack.com/internal/analytics"
	"github.com/lumastack/lumastack.com/internal/content"
	apperrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
)

type fakeContent struct {
	sitemap    []content.SitemapNode
	pages      map[string]content.Page
	items      map[string]content.Item
	lists      map[string]content.List
	sitemapErr error
}

func (f *fakeContent) GetSitemap(ctx context.Context, locale string) ([]content.SitemapNode, error) {
	if f.sitemapErr != nil {
		return nil, f.sitemapErr
	}
	return f.sitemap, nil
}

func (f *fakeContent) GetPage(ctx context.Context, locale, pageID string) (content.Page, error) {
	page, ok := f.pages[pageID]
	if !ok {
		return content.Page{}, apperrors.New(apperrors.CodeContentNotFound, "page not found: "+pageID)
	}
	return page, nil
}

func (f *fakeContent) GetItem(ctx context.Context, locale, itemID string) (content.Item, error) {
	item, ok := f.items[itemID]
	if !ok {
		return content.Item{}, apperrors.New(apperrors.CodeContentNotFound, "item not found: "+itemID)
	}
	return item, nil
}

func (f *fakeContent) GetList(ctx context.Context, locale, ref string, q content.Query) (content.List, error) {
	return f.lists[ref], nil
}

var _ content.Source = (*fakeContent)(nil)

type fakeCapturer struct {
	mu       sync.Mutex
	events   []analytics.Event
	disabled bool
	err      error
}

func (f *fakeCapturer) Capture(ctx context.Context, evt analytics.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeCapturer) Disabled() bool { return f.disabled }

func (f *fakeCapturer) captured() []analytics.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]analytics.Event(nil), f.events...)
}

func fieldsJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fields: %v", err)
	}
	return raw
}

// fixtureContent builds a live source with a home page, a pricing page, a
// redirect node, and a hidden page.
func fixtureContent(t *testing.T) *fakeContent {
	t.Helper()
	return &fakeContent{
		sitemap: []content.SitemapNode{
			{Path: "/", PageID: "home", Title: "Home", Visible: true},
			{Path: "/pricing", PageID: "pricing", Title: "Pricing", Visible: true},
			{Path: "/old-pricing", Redirect: "/pricing", Visible: false},
			{Path: "/drafts", PageID: "drafts", Title: "Drafts", Visible: false},
		},
		pages: map[string]content.Page{
			"home": {
				ID:    "home",
				Title: "Home",
				SEO:   content.SEO{Title: "Dashboards for every team", Description: "Home description"},
				Zones: []content.Zone{{Name: "main", Blocks: []content.BlockRef{
					{Type: "hero", ItemID: "hero-1"},
				}}},
			},
			"pricing": {
				ID:    "pricing",
				Title: "Pricing",
				Zones: []content.Zone{{Name: "main", Blocks: []content.BlockRef{
					{Type: "pricing", ItemID: "pricing-1"},
				}}},
			},
			"drafts": {ID: "drafts", Title: "Drafts"},
		},
		items: map[string]content.Item{
			"hero-1": {ID: "hero-1", Fields: fieldsJSON(t, map[string]any{
				"heading": "Ship dashboards faster",
			})},
			"pricing-1": {ID: "pricing-1", Fields: fieldsJSON(t, map[string]any{
				"heading": "Plans",
				"tiers":   []map[string]any{{"name": "Starter", "price": "$0"}},
			})},
		},
		lists: map[string]content.List{},
	}
}

func staticVisitor(v module.Visitor) module.ResolveVisitor {
	return func(http.ResponseWriter, *http.Request) module.Visitor { return v }
}

func staticPersonalization(p module.Personalization) module.ResolvePersonalization {
	return func(http.ResponseWriter, *http.Request) module.Personalization { return p }
}

var errUpstream = errors.New("upstream down")
