// Package routepath centralizes route constants and builders for the site.
package routepath

import (
	"net/url"
	"strings"
)

// Top-level routes.
const (
	Root    = "/"
	Health  = "/healthz"
	Static  = "/static/"
	Blog    = "/blog"
	BlogDir = "/blog/"

	Collect      = "/api/collect"
	Preview      = "/preview"
	PreviewEnter = "/preview/enter"
	PreviewExit  = "/preview/exit"

	Robots  = "/robots.txt"
	Sitemap = "/sitemap.xml"
)

// ServeMux patterns with path parameters.
const (
	BlogPostPattern = "/blog/{slug}"
)

// BlogPost builds the canonical URL for a single post.
func BlogPost(slug string) string {
	return Blog + "/" + escapeSegment(slug)
}

func escapeSegment(segment string) string {
	return url.PathEscape(strings.TrimSpace(segment))
}

// Normalize collapses trailing slashes so path comparisons are exact. The
// root path stays "/".
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return Root
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = Root
		}
	}
	return path
}

// Canonical joins the site origin and a normalized path into the canonical
// page URL. An empty base yields no canonical.
func Canonical(baseURL, path string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return ""
	}
	path = Normalize(path)
	if path == Root {
		return baseURL + "/"
	}
	return baseURL + path
}
