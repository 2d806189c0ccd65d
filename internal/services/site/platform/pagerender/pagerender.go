// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/lumastack/lumastack.com/internal/content"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/httpx"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
	"github.com/lumastack/lumastack.com/internal/services/site/templates"
)

// Chrome carries the shell state shared by every rendered page.
type Chrome struct {
	Nav          []templates.NavLink
	AssetVersion string
	Preview      bool
}

// Page describes a module page response.
type Page struct {
	Meta       templates.PageMeta
	StatusCode int
	Fragment   templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WritePage renders a page fragment inside the shared document shell.
// The fragment is buffered so render failures never produce a half-written
// response.
func WritePage(w http.ResponseWriter, r *http.Request, chrome Chrome, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = emptyComponent{}
	}

	shell := templates.Shell(templates.ShellProps{
		Meta:          page.Meta,
		Nav:           chrome.Nav,
		AssetVersion:  chrome.AssetVersion,
		PreviewActive: chrome.Preview,
	})

	var buf bytes.Buffer
	ctx := templ.WithChildren(httpx.RequestContext(r), fragment)
	if err := shell.Render(ctx, &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

// NavFor fetches the sitemap from source and builds navigation links. Nav is
// best effort chrome: a nil source or a fetch failure yields no links rather
// than an error.
func NavFor(ctx context.Context, source content.Source, locale, currentPath string) []templates.NavLink {
	if source == nil {
		return nil
	}
	sitemap, err := source.GetSitemap(ctx, locale)
	if err != nil {
		return nil
	}
	return Nav(sitemap, currentPath)
}

// Nav builds shell navigation links from sitemap nodes. Hidden and redirect
// nodes are excluded; the node matching currentPath is marked current.
func Nav(sitemap []content.SitemapNode, currentPath string) []templates.NavLink {
	currentPath = routepath.Normalize(currentPath)
	links := make([]templates.NavLink, 0, len(sitemap))
	for _, node := range sitemap {
		if !node.Visible || node.Redirect != "" {
			continue
		}
		nodePath := routepath.Normalize(node.Path)
		links = append(links, templates.NavLink{
			Label:   node.Title,
			URL:     nodePath,
			Current: nodePath == currentPath,
		})
	}
	return links
}
