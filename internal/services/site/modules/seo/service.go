package seo

import (
	"context"
	"encoding/xml"
	"log"
	"strings"

	"github.com/lumastack/lumastack.com/internal/content"
	apperrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/sitelocale"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

const (
	// postsRef is the CMS list of blog posts included in the sitemap.
	postsRef = "posts"
	// maxSitemapPosts bounds the post fetch for the sitemap.
	maxSitemapPosts = 500

	sitemapXMLNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

type service struct {
	deps   module.Dependencies
	logger *log.Logger
}

func newService(deps module.Dependencies) service {
	return service{deps: deps, logger: log.Default()}
}

// robotsBody renders the crawl policy. Staging deploys run with crawling
// disallowed entirely.
func (s service) robotsBody() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	if !s.deps.RobotsAllow {
		b.WriteString("Disallow: /\n")
		return b.String()
	}
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /preview/\n")
	if sitemapURL := routepath.Canonical(s.deps.BaseURL, routepath.Sitemap); sitemapURL != "" {
		b.WriteString("Sitemap: " + sitemapURL + "\n")
	}
	return b.String()
}

type urlset struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc string `xml:"loc"`
}

// sitemapXML renders the published site URLs: every visible sitemap node
// plus the blog posts. Always served from the live source.
func (s service) sitemapXML(ctx context.Context) ([]byte, error) {
	if s.deps.Content == nil {
		return nil, apperrors.New(apperrors.CodeContentSourceUnconfigured, "content source is not configured")
	}
	if strings.TrimSpace(s.deps.BaseURL) == "" {
		return nil, apperrors.New(apperrors.CodeSitemapUnresolved, "sitemap needs a base url")
	}
	locale := s.deps.DefaultLocale
	if locale == "" {
		locale = sitelocale.Default
	}

	nodes, err := s.deps.Content.GetSitemap(ctx, locale)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSitemapUnresolved, "resolve sitemap for "+locale, err)
	}

	set := urlset{XMLNS: sitemapXMLNS}
	for _, node := range nodes {
		if !node.Visible || node.Redirect != "" {
			continue
		}
		set.URLs = append(set.URLs, urlEntry{Loc: routepath.Canonical(s.deps.BaseURL, node.Path)})
	}
	set.URLs = append(set.URLs, s.postEntries(ctx, locale)...)

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSitemapUnresolved, "marshal sitemap", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// postEntries lists blog post URLs. A posts fetch failure degrades to a
// page-only sitemap rather than failing the whole document.
func (s service) postEntries(ctx context.Context, locale string) []urlEntry {
	list, err := s.deps.Content.GetList(ctx, locale, postsRef, content.Query{Take: maxSitemapPosts})
	if err != nil {
		s.logger.Printf("sitemap posts fetch failed locale=%s err=%v", locale, err)
		return nil
	}
	entries := make([]urlEntry, 0, len(list.Items))
	for _, item := range list.Items {
		var fields struct {
			Slug string `json:"slug"`
		}
		if err := content.DecodeFields(item, &fields); err != nil || fields.Slug == "" {
			continue
		}
		entries = append(entries, urlEntry{Loc: routepath.Canonical(s.deps.BaseURL, routepath.BlogPost(fields.Slug))})
	}
	return entries
}
