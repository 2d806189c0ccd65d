package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/lumastack/lumastack.com/internal/analytics"
	"github.com/lumastack/lumastack.com/internal/content"
	apperrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
)

// fakeContent serves canned lists and honors Take and Skip so pagination
// behaves like the real client.
type fakeContent struct {
	sitemap []content.SitemapNode
	lists   map[string][]content.Item
	listErr error
}

func (f *fakeContent) GetSitemap(ctx context.Context, locale string) ([]content.SitemapNode, error) {
	return f.sitemap, nil
}

func (f *fakeContent) GetPage(ctx context.Context, locale, pageID string) (content.Page, error) {
	return content.Page{}, apperrors.New(apperrors.CodeContentNotFound, "page not found: "+pageID)
}

func (f *fakeContent) GetItem(ctx context.Context, locale, itemID string) (content.Item, error) {
	return content.Item{}, apperrors.New(apperrors.CodeContentNotFound, "item not found: "+itemID)
}

func (f *fakeContent) GetList(ctx context.Context, locale, ref string, q content.Query) (content.List, error) {
	if f.listErr != nil {
		return content.List{}, f.listErr
	}
	items := f.lists[ref]
	total := len(items)
	if q.Skip > 0 {
		if q.Skip >= len(items) {
			items = nil
		} else {
			items = items[q.Skip:]
		}
	}
	if q.Take > 0 && q.Take < len(items) {
		items = items[:q.Take]
	}
	return content.List{Items: items, TotalCount: total}, nil
}

var _ content.Source = (*fakeContent)(nil)

type fakeCapturer struct {
	mu     sync.Mutex
	events []analytics.Event
}

func (f *fakeCapturer) Capture(ctx context.Context, evt analytics.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeCapturer) Disabled() bool { return false }

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

func postItem(t *testing.T, n int) content.Item {
	t.Helper()
	return content.Item{
		ID: fmt.Sprintf("post-item-%d", n),
		Fields: fieldsJSON(t, map[string]any{
			"title":       fmt.Sprintf("Post %d", n),
			"slug":        fmt.Sprintf("post-%d", n),
			"excerpt":     fmt.Sprintf("Excerpt %d", n),
			"publishedAt": fmt.Sprintf("2026-05-%02dT09:00:00Z", n%28+1),
			"author":      "Priya Shah",
			"bodyHtml":    fmt.Sprintf("<p>Body %d</p><script>alert(1)</script>", n),
		}),
	}
}

// fixtureContent builds a live source with n posts and the sitemap nodes
// behind the shell navigation.
func fixtureContent(t *testing.T, n int) *fakeContent {
	t.Helper()
	items := make([]content.Item, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, postItem(t, i))
	}
	return &fakeContent{
		sitemap: []content.SitemapNode{
			{Path: "/", PageID: "home", Title: "Home", Visible: true},
			{Path: "/blog", PageID: "blog", Title: "Blog", Visible: true},
		},
		lists: map[string][]content.Item{listRef: items},
	}
}

func staticVisitor(v module.Visitor) module.ResolveVisitor {
	return func(http.ResponseWriter, *http.Request) module.Visitor { return v }
}

func staticPersonalization(p module.Personalization) module.ResolvePersonalization {
	return func(http.ResponseWriter, *http.Request) module.Personalization { return p }
}

var errListDown = errors.New("list backend down")
