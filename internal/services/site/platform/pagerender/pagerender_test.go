package pagerender

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/lumastack/lumastack.com/internal/content"
	"github.com/lumastack/lumastack.com/internal/services/site/templates"
)

func textComponent(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func TestWritePageRendersFragmentInShell(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/pricing", nil)
	rr := httptest.NewRecorder()

	err := WritePage(rr, req, Chrome{AssetVersion: "v1"}, Page{
		Meta:     templates.PageMeta{Title: "Pricing"},
		Fragment: textComponent("<h1>Plans</h1>"),
	})
	if err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<main><h1>Plans</h1></main>") {
		t.Fatalf("fragment not rendered in shell: %q", body)
	}
	if !strings.Contains(body, "<title>Pricing · "+templates.AppName+"</title>") {
		t.Fatalf("title missing: %q", body)
	}
}

func TestWritePageUsesExplicitStatus(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	err := WritePage(rr, httptest.NewRequest(http.MethodGet, "/missing", nil), Chrome{}, Page{
		StatusCode: http.StatusNotFound,
		Fragment:   textComponent("gone"),
	})
	if err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestWritePageBuffersRenderFailure(t *testing.T) {
	t.Parallel()

	failing := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return errors.New("boom")
	})
	rr := httptest.NewRecorder()
	err := WritePage(rr, httptest.NewRequest(http.MethodGet, "/", nil), Chrome{}, Page{Fragment: failing})
	if err == nil {
		t.Fatal("expected render error")
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("partial body written: %q", rr.Body.String())
	}
}

func TestWritePageToleratesNilFragment(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	if err := WritePage(rr, httptest.NewRequest(http.MethodGet, "/", nil), Chrome{}, Page{}); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	if !strings.Contains(rr.Body.String(), "<main></main>") {
		t.Fatalf("empty main missing: %q", rr.Body.String())
	}
}

func TestNavSkipsHiddenAndRedirectNodes(t *testing.T) {
	t.Parallel()

	sitemap := []content.SitemapNode{
		{Path: "/", Title: "Home", Visible: true},
		{Path: "/pricing/", Title: "Pricing", Visible: true},
		{Path: "/old-pricing", Title: "Old", Visible: true, Redirect: "/pricing"},
		{Path: "/drafts", Title: "Drafts", Visible: false},
	}
	links := Nav(sitemap, "/pricing")
	if len(links) != 2 {
		t.Fatalf("links = %+v, want home and pricing", links)
	}
	if links[0].URL != "/" || links[0].Current {
		t.Fatalf("home link = %+v", links[0])
	}
	if links[1].URL != "/pricing" || !links[1].Current {
		t.Fatalf("pricing link = %+v", links[1])
	}
}
