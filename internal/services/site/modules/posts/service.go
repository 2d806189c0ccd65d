package posts

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/a-h/templ"

	"github.com/lumastack/lumastack.com/internal/content"
	apperrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/pagerender"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
	"github.com/lumastack/lumastack.com/internal/services/site/templates"
)

const (
	// listRef is the CMS list holding blog posts, newest first.
	listRef = "posts"
	// pageSize is the number of posts per listing page.
	pageSize = 10
	// slugScanPage and slugScanLimit bound the lookup fetches when
	// resolving a post by slug. The CMS list API has no slug filter.
	slugScanPage  = 50
	slugScanLimit = 500
)

const listDescription = "Product updates, engineering notes, and launch stories from the Lumastack team."

type service struct {
	deps   module.Dependencies
	logger *log.Logger
}

func newService(deps module.Dependencies) service {
	return service{deps: deps, logger: log.Default()}
}

// postFields is the CMS shape of one post item.
type postFields struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt"`
	ImageURL    string `json:"imageUrl"`
	PublishedAt string `json:"publishedAt"`
	Author      string `json:"author"`
	BodyHTML    string `json:"bodyHtml"`
}

// pageResult is everything a handler needs to answer a blog request.
type pageResult struct {
	Meta     templates.PageMeta
	Fragment templ.Component
}

// resolveList builds one page of the blog index. Page numbers start at 1;
// pages past the end resolve to not found so stale pagination links 404
// instead of serving an empty page.
func (s service) resolveList(ctx context.Context, locale string, page int, preview bool) (pageResult, error) {
	source := s.pick(preview)
	if source == nil {
		return pageResult{}, apperrors.New(apperrors.CodeContentSourceUnconfigured, "content source is not configured")
	}
	if page < 1 {
		page = 1
	}

	list, err := source.GetList(ctx, locale, listRef, content.Query{Take: pageSize, Skip: (page - 1) * pageSize})
	if err != nil {
		return pageResult{}, err
	}
	lastPage := (list.TotalCount + pageSize - 1) / pageSize
	if lastPage < 1 {
		lastPage = 1
	}
	if page > 1 && len(list.Items) == 0 {
		return pageResult{}, apperrors.WithMetadata(apperrors.CodePostNotFound, fmt.Sprintf("no posts on page %d", page), map[string]string{"page": fmt.Sprint(page), "locale": locale})
	}

	cards := make([]templates.PostCard, 0, len(list.Items))
	for _, item := range list.Items {
		var fields postFields
		if err := content.DecodeFields(item, &fields); err != nil {
			s.logger.Printf("post decode failed ref=%s id=%s err=%v", listRef, item.ID, err)
			continue
		}
		if fields.Slug == "" {
			continue
		}
		cards = append(cards, templates.PostCard{
			Title:     fields.Title,
			URL:       routepath.BlogPost(fields.Slug),
			Excerpt:   fields.Excerpt,
			Published: templates.PublishedDate(fields.PublishedAt),
		})
	}

	props := templates.PostListProps{
		Posts:    cards,
		PageNum:  page,
		LastPage: lastPage,
	}
	if page > 1 {
		props.PrevURL = listPageURL(page - 1)
	}
	if page < lastPage {
		props.NextURL = listPageURL(page + 1)
	}

	canonical := routepath.Canonical(s.deps.BaseURL, routepath.Blog)
	if canonical != "" && page > 1 {
		canonical += fmt.Sprintf("?page=%d", page)
	}
	return pageResult{
		Meta: templates.PageMeta{
			Title:       listTitle(page),
			Description: listDescription,
			Canonical:   canonical,
			NoIndex:     preview,
			Locale:      locale,
		},
		Fragment: templates.PostList(props),
	}, nil
}

// resolvePost renders one post located by slug.
func (s service) resolvePost(ctx context.Context, locale, slug string, preview bool) (pageResult, error) {
	source := s.pick(preview)
	if source == nil {
		return pageResult{}, apperrors.New(apperrors.CodeContentSourceUnconfigured, "content source is not configured")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return pageResult{}, apperrors.New(apperrors.CodePostSlugEmpty, "post slug is empty")
	}

	fields, ok, err := s.findPost(ctx, source, locale, slug)
	if err != nil {
		return pageResult{}, err
	}
	if !ok {
		return pageResult{}, apperrors.WithMetadata(apperrors.CodePostNotFound, "no post with slug "+slug, map[string]string{"slug": slug, "locale": locale})
	}

	return pageResult{
		Meta: templates.PageMeta{
			Title:       fields.Title,
			Description: fields.Excerpt,
			OGImage:     fields.ImageURL,
			Canonical:   routepath.Canonical(s.deps.BaseURL, routepath.BlogPost(slug)),
			NoIndex:     preview,
			Locale:      locale,
		},
		Fragment: templates.PostDetail(templates.PostDetailProps{
			Title:     fields.Title,
			Published: templates.PublishedDate(fields.PublishedAt),
			Author:    fields.Author,
			ImageURL:  fields.ImageURL,
			BodyHTML:  content.SanitizeRichText(fields.BodyHTML),
			BackURL:   routepath.Blog,
		}),
	}, nil
}

// findPost pages through the posts list until the slug matches or the list
// is exhausted.
func (s service) findPost(ctx context.Context, source content.Source, locale, slug string) (postFields, bool, error) {
	for skip := 0; skip < slugScanLimit; skip += slugScanPage {
		list, err := source.GetList(ctx, locale, listRef, content.Query{Take: slugScanPage, Skip: skip})
		if err != nil {
			return postFields{}, false, err
		}
		for _, item := range list.Items {
			var fields postFields
			if err := content.DecodeFields(item, &fields); err != nil {
				s.logger.Printf("post decode failed ref=%s id=%s err=%v", listRef, item.ID, err)
				continue
			}
			if fields.Slug == slug {
				return fields, true, nil
			}
		}
		if len(list.Items) == 0 || skip+len(list.Items) >= list.TotalCount {
			break
		}
	}
	return postFields{}, false, nil
}

// nav resolves the navigation links for blog chrome.
func (s service) nav(ctx context.Context, locale, currentPath string, preview bool) []templates.NavLink {
	return pagerender.NavFor(ctx, s.pick(preview), locale, currentPath)
}

func (s service) pick(preview bool) content.Source {
	if preview && s.deps.PreviewContent != nil {
		return s.deps.PreviewContent
	}
	return s.deps.Content
}

func listTitle(page int) string {
	if page > 1 {
		return fmt.Sprintf("Blog, page %d", page)
	}
	return "Blog"
}

func listPageURL(page int) string {
	if page <= 1 {
		return routepath.Blog
	}
	return fmt.Sprintf("%s?page=%d", routepath.Blog, page)
}
