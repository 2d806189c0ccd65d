package templates

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// publishedLayout is the display format for post publish dates.
const publishedLayout = "January 2, 2006"

// PublishedDate renders an RFC 3339 publish timestamp for display.
// Unparseable values pass through untouched.
func PublishedDate(value string) string {
	if value == "" {
		return ""
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.Format(publishedLayout)
	}
	return value
}

// PostCard is one entry on the blog index.
type PostCard struct {
	Title     string
	URL       string
	Excerpt   string
	Published string
}

// PostListProps configures the blog index page.
type PostListProps struct {
	Heading  string
	Posts    []PostCard
	PrevURL  string
	NextURL  string
	PageNum  int
	LastPage int
}

// PostList renders the blog index with pagination controls.
func PostList(props PostListProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		heading := strings.TrimSpace(props.Heading)
		if heading == "" {
			heading = "Blog"
		}
		if _, err := fmt.Fprintf(w, `<section class="post-list"><h1>%s</h1>`, text(heading)); err != nil {
			return err
		}
		if len(props.Posts) == 0 {
			if _, err := io.WriteString(w, `<p class="empty">No posts yet.</p>`); err != nil {
				return err
			}
		}
		for _, post := range props.Posts {
			if _, err := fmt.Fprintf(w, `<article><h2><a href="%s">%s</a></h2>`, href(post.URL), text(post.Title)); err != nil {
				return err
			}
			if post.Published != "" {
				if _, err := fmt.Fprintf(w, `<time>%s</time>`, text(post.Published)); err != nil {
					return err
				}
			}
			if excerpt := strings.TrimSpace(post.Excerpt); excerpt != "" {
				if _, err := fmt.Fprintf(w, `<p>%s</p>`, text(excerpt)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</article>`); err != nil {
				return err
			}
		}
		if err := renderPagination(w, props); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

func renderPagination(w io.Writer, props PostListProps) error {
	if props.PrevURL == "" && props.NextURL == "" {
		return nil
	}
	if _, err := io.WriteString(w, `<nav class="pagination">`); err != nil {
		return err
	}
	if props.PrevURL != "" {
		if _, err := fmt.Fprintf(w, `<a rel="prev" href="%s">Newer posts</a>`, href(props.PrevURL)); err != nil {
			return err
		}
	}
	if props.PageNum > 0 && props.LastPage > 0 {
		if _, err := fmt.Fprintf(w, `<span>Page %d of %d</span>`, props.PageNum, props.LastPage); err != nil {
			return err
		}
	}
	if props.NextURL != "" {
		if _, err := fmt.Fprintf(w, `<a rel="next" href="%s">Older posts</a>`, href(props.NextURL)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</nav>`)
	return err
}

// PostDetailProps configures a single blog post page.
type PostDetailProps struct {
	Title     string
	Published string
	Author    string
	ImageURL  string
	BodyHTML  string
	BackURL   string
}

// PostDetail renders a single blog post. BodyHTML must already be sanitized.
func PostDetail(props PostDetailProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<article class="post"><h1>%s</h1>`, text(props.Title)); err != nil {
			return err
		}
		byline := strings.TrimSpace(strings.Join(nonEmpty(props.Published, props.Author), " · "))
		if byline != "" {
			if _, err := fmt.Fprintf(w, `<p class="byline">%s</p>`, text(byline)); err != nil {
				return err
			}
		}
		if image := strings.TrimSpace(props.ImageURL); image != "" {
			if _, err := fmt.Fprintf(w, `<img src="%s" alt="">`, href(image)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<div class="prose">%s</div>`, props.BodyHTML); err != nil {
			return err
		}
		if props.BackURL != "" {
			if _, err := fmt.Fprintf(w, `<p><a href="%s">Back to all posts</a></p>`, href(props.BackURL)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</article>`)
		return err
	})
}
