package site

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumastack/lumastack.com/internal/content"
	apperrors "github.com/lumastack/lumastack.com/internal/platform/errors"
)

type fixtureSource struct {
	sitemap []content.SitemapNode
	pages   map[string]content.Page
	items   map[string]content.Item
	lists   map[string]content.List
}

func (f *fixtureSource) GetSitemap(context.Context, string) ([]content.SitemapNode, error) {
	return f.sitemap, nil
}

func (f *fixtureSource) GetPage(_ context.Context, _, pageID string) (content.Page, error) {
	page, ok := f.pages[pageID]
	if !ok {
		return content.Page{}, apperrors.New(apperrors.CodeContentNotFound, "page not found: "+pageID)
	}
	return page, nil
}

func (f *fixtureSource) GetItem(_ context.Context, _, itemID string) (content.Item, error) {
	item, ok := f.items[itemID]
	if !ok {
		return content.Item{}, apperrors.New(apperrors.CodeContentNotFound, "item not found: "+itemID)
	}
	return item, nil
}

func (f *fixtureSource) GetList(_ context.Context, _, ref string, _ content.Query) (content.List, error) {
	return f.lists[ref], nil
}

var _ content.Source = (*fixtureSource)(nil)

func demoSource() *fixtureSource {
	return &fixtureSource{
		sitemap: []content.SitemapNode{
			{Path: "/", PageID: "home", Title: "Home", Visible: true},
		},
		pages: map[string]content.Page{
			"home": {
				ID:    "home",
				Title: "Home",
				Zones: []content.Zone{
					{Name: "main", Blocks: []content.BlockRef{{Type: "hero", ItemID: "hero-1"}}},
				},
			},
		},
		items: map[string]content.Item{
			"hero-1": {
				ID:     "hero-1",
				Fields: json.RawMessage(`{"heading":"Ship features with confidence"}`),
			},
		},
		lists: map[string]content.List{"posts": {}},
	}
}

func demoConfig() Config {
	return Config{
		HTTPAddr:      "127.0.0.1:0",
		BaseURL:       "https://lumastack.com",
		DefaultLocale: "en-US",
		AssetVersion:  "test",
		RobotsAllow:   true,
		Content:       demoSource(),
	}
}

func TestNewServerRequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(context.Background(), Config{}); err == nil {
		t.Fatal("expected address validation error")
	}
}

func TestNewHandlerServesStaticAssets(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(demoConfig())
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/site.css", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "text/css") {
		t.Fatalf("content type = %q", ct)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("request id header missing")
	}
}

func TestNewHandlerHealthEndpoint(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(demoConfig())
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Body.String(); got != "ok" {
		t.Fatalf("body = %q, want %q", got, "ok")
	}
}

func TestNewHandlerServesComposedSite(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(demoConfig())
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("home status = %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Ship features with confidence") {
		t.Fatalf("home missing hero content: %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/blog", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("blog status = %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "User-agent") {
		t.Fatalf("robots status = %d body = %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown path status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if !strings.Contains(rr.Body.String(), "<html") {
		t.Fatal("unknown path should render the branded error page")
	}
}

func TestNewHandlerRoutesCollectAPI(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(demoConfig())
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/collect", strings.NewReader(`{"page":"/","milestones":["time_10"]}`))
	r.Header.Set("Origin", "http://"+r.Host)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)

	// No milestone store is configured in this config, so the module
	// answers with its storage error instead of a router 404.
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusServiceUnavailable, rr.Body.String())
	}
}

func TestNewHandlerDegradesWithoutContent(t *testing.T) {
	t.Parallel()

	cfg := demoConfig()
	cfg.Content = nil
	h, err := NewHandler(cfg)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
