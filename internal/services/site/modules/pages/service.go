package pages

import (
	"context"
	"log"
	"strings"

	"github.com/a-h/templ"

	"github.com/lumastack/lumastack.com/internal/content"
	apperrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/services/site/blocks"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/personalization"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/pagerender"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
	"github.com/lumastack/lumastack.com/internal/services/site/templates"
)

type service struct {
	deps            module.Dependencies
	liveBlocks      *blocks.Registry
	previewBlocks   *blocks.Registry
	liveSegments    *personalization.Segments
	previewSegments *personalization.Segments
	logger          *log.Logger
}

func newService(deps module.Dependencies) service {
	logger := log.Default()
	svc := service{
		deps:         deps,
		liveBlocks:   blocks.NewRegistry(deps.Content, logger, defaultRenderers(deps.Content)...),
		liveSegments: personalization.NewSegments(deps.Content, logger),
		logger:       logger,
	}
	if deps.PreviewContent != nil {
		svc.previewBlocks = blocks.NewRegistry(deps.PreviewContent, logger, defaultRenderers(deps.PreviewContent)...)
		svc.previewSegments = personalization.NewSegments(deps.PreviewContent, logger)
	}
	return svc
}

func defaultRenderers(source content.Source) []blocks.Renderer {
	return []blocks.Renderer{
		blocks.Hero{},
		blocks.ExperimentHero{},
		blocks.LogoStrip{},
		blocks.RichText{},
		blocks.Testimonials{},
		blocks.Pricing{},
		blocks.FAQ{},
		blocks.CTA{},
		blocks.CustomerStories{},
		blocks.NewFeaturedPosts(source),
	}
}

// pageResult is everything a handler needs to answer a page request.
type pageResult struct {
	Meta     templates.PageMeta
	Nav      []templates.NavLink
	Fragment templ.Component
	Redirect string
}

// resolvePage maps a request path to its sitemap node and renders the page's
// zones. Preview selects the draft source when it is configured.
func (s service) resolvePage(ctx context.Context, rc blocks.RenderContext, preview bool) (pageResult, error) {
	source, registry, segments := s.pick(preview)
	if source == nil {
		return pageResult{}, apperrors.New(apperrors.CodeContentSourceUnconfigured, "content source is not configured")
	}

	sitemap, err := source.GetSitemap(ctx, rc.Locale)
	if err != nil {
		return pageResult{}, apperrors.Wrap(apperrors.CodeSitemapUnresolved, "resolve sitemap for "+rc.Locale, err)
	}
	node, ok := findNode(sitemap, rc.Path)
	if !ok {
		return pageResult{}, apperrors.WithMetadata(apperrors.CodePageNotFound, "no page at "+rc.Path, map[string]string{"path": rc.Path, "locale": rc.Locale})
	}
	if node.Redirect != "" {
		return pageResult{Redirect: node.Redirect}, nil
	}

	page, err := source.GetPage(ctx, rc.Locale, node.PageID)
	if err != nil {
		return pageResult{}, err
	}

	sections := make([]templ.Component, 0, len(page.Zones)+1)
	if banner, ok := s.segmentBanner(ctx, segments, rc); ok {
		sections = append(sections, banner)
	}
	for _, zone := range page.Zones {
		sections = append(sections, registry.RenderZone(ctx, rc, zone))
	}

	title := firstNonEmpty(page.SEO.Title, page.Title, node.Title)
	return pageResult{
		Meta: templates.PageMeta{
			Title:       title,
			Description: page.SEO.Description,
			OGImage:     page.SEO.OGImage,
			NoIndex:     page.SEO.NoIndex || preview,
			Canonical:   routepath.Canonical(s.deps.BaseURL, rc.Path),
			Locale:      rc.Locale,
		},
		Nav:      pagerender.Nav(sitemap, rc.Path),
		Fragment: templates.Sections(sections...),
	}, nil
}

// nav resolves the navigation links alone, for routes that render without a
// full page resolve.
func (s service) nav(ctx context.Context, locale, currentPath string, preview bool) []templates.NavLink {
	source, _, _ := s.pick(preview)
	return pagerender.NavFor(ctx, source, locale, currentPath)
}

func (s service) pick(preview bool) (content.Source, *blocks.Registry, *personalization.Segments) {
	if preview && s.deps.PreviewContent != nil {
		return s.deps.PreviewContent, s.previewBlocks, s.previewSegments
	}
	return s.deps.Content, s.liveBlocks, s.liveSegments
}

// segmentBanner resolves the personalized banner for the request's audience,
// falling back to the region segment. No match means no banner.
func (s service) segmentBanner(ctx context.Context, segments *personalization.Segments, rc blocks.RenderContext) (templ.Component, bool) {
	for _, slug := range []string{rc.Personalization.Audience, rc.Personalization.Region} {
		if slug == "" {
			continue
		}
		segment, ok := segments.Lookup(ctx, rc.Locale, slug)
		if !ok {
			continue
		}
		return templates.SegmentBanner(templates.SegmentBannerProps{
			Headline: segment.Headline,
			Message:  segment.Message,
		}), true
	}
	return nil, false
}

func findNode(sitemap []content.SitemapNode, path string) (content.SitemapNode, bool) {
	for _, node := range sitemap {
		if routepath.Normalize(node.Path) == path {
			return node, true
		}
	}
	return content.SitemapNode{}, false
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
