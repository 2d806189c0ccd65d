package blocks

import (
	"context"

	"github.com/a-h/templ"

	"github.com/lumastack/lumastack.com/internal/content"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
	"github.com/lumastack/lumastack.com/internal/services/site/templates"
)

const (
	defaultPostsRef      = "posts"
	defaultFeaturedCount = 3
)

// FeaturedPosts renders recent blog posts on a landing page.
type FeaturedPosts struct {
	source content.Source
}

// NewFeaturedPosts returns the featured posts renderer backed by source.
func NewFeaturedPosts(source content.Source) FeaturedPosts {
	return FeaturedPosts{source: source}
}

func (FeaturedPosts) Type() string { return "featuredposts" }

func (f FeaturedPosts) Render(ctx context.Context, rc RenderContext, item content.Item) (templ.Component, error) {
	var fields struct {
		Heading  string `json:"heading"`
		PostsRef string `json:"postsRef"`
		Take     int    `json:"take"`
	}
	if err := content.DecodeFields(item, &fields); err != nil {
		return nil, err
	}
	if fields.PostsRef == "" {
		fields.PostsRef = defaultPostsRef
	}
	if fields.Take <= 0 {
		fields.Take = defaultFeaturedCount
	}
	if f.source == nil {
		return templates.FeaturedPosts(templates.FeaturedPostsProps{Heading: fields.Heading}), nil
	}

	list, err := f.source.GetList(ctx, rc.Locale, fields.PostsRef, content.Query{Take: fields.Take})
	if err != nil {
		return nil, err
	}
	posts := make([]templates.FeaturedPost, 0, len(list.Items))
	for _, postItem := range list.Items {
		var post struct {
			Title       string `json:"title"`
			Slug        string `json:"slug"`
			Excerpt     string `json:"excerpt"`
			PublishedAt string `json:"publishedAt"`
		}
		if err := content.DecodeFields(postItem, &post); err != nil {
			continue
		}
		posts = append(posts, templates.FeaturedPost{
			Title:     post.Title,
			URL:       routepath.BlogPost(post.Slug),
			Excerpt:   post.Excerpt,
			Published: templates.PublishedDate(post.PublishedAt),
		})
	}
	return templates.FeaturedPosts(templates.FeaturedPostsProps{
		Heading: fields.Heading,
		Posts:   posts,
	}), nil
}
