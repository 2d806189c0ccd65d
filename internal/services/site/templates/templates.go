// Package templates renders the site's HTML as templ components.
//
// Components are hand-written against the templ runtime. Every text value is
// escaped; CMS-supplied URLs pass through templ's URL sanitizer. Rich-text
// HTML is the one exception and must be sanitized before it reaches a
// component.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// AppName is the product name shown in titles and chrome.
const AppName = "Lumastack"

// PageMeta carries head metadata for a rendered page.
type PageMeta struct {
	Title       string
	Description string
	Canonical   string
	OGImage     string
	NoIndex     bool
	Locale      string
}

// NavLink is one entry in the site navigation.
type NavLink struct {
	Label   string
	URL     string
	Current bool
}

// ShellProps configures the HTML document shell.
type ShellProps struct {
	Meta          PageMeta
	Nav           []NavLink
	AssetVersion  string
	PreviewActive bool
}

// PageTitle composes the browser title for a page.
func PageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return AppName
	}
	return title + " · " + AppName
}

// Shell renders the full HTML document around its children.
func Shell(props ShellProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := strings.TrimSpace(props.Meta.Locale)
		if lang == "" {
			lang = "en"
		}
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="%s"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`, attr(lang)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<title>%s</title>`, text(PageTitle(props.Meta.Title))); err != nil {
			return err
		}
		if desc := strings.TrimSpace(props.Meta.Description); desc != "" {
			if _, err := fmt.Fprintf(w, `<meta name="description" content="%s">`, attr(desc)); err != nil {
				return err
			}
		}
		if props.Meta.NoIndex {
			if _, err := io.WriteString(w, `<meta name="robots" content="noindex, nofollow">`); err != nil {
				return err
			}
		}
		if canonical := strings.TrimSpace(props.Meta.Canonical); canonical != "" {
			if _, err := fmt.Fprintf(w, `<link rel="canonical" href="%s">`, href(canonical)); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, `<meta property="og:url" content="%s">`, href(canonical)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<meta property="og:title" content="%s"><meta property="og:type" content="website">`, attr(PageTitle(props.Meta.Title))); err != nil {
			return err
		}
		if desc := strings.TrimSpace(props.Meta.Description); desc != "" {
			if _, err := fmt.Fprintf(w, `<meta property="og:description" content="%s">`, attr(desc)); err != nil {
				return err
			}
		}
		if image := strings.TrimSpace(props.Meta.OGImage); image != "" {
			if _, err := fmt.Fprintf(w, `<meta property="og:image" content="%s">`, href(image)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<link rel="stylesheet" href="/static/site.css%s"><script src="/static/site.js%s" defer></script></head>`, assetQuery(props.AssetVersion), assetQuery(props.AssetVersion)); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<body>`); err != nil {
			return err
		}
		if props.PreviewActive {
			if _, err := io.WriteString(w, `<div class="preview-banner">Previewing draft content. <a href="/preview/exit">Exit preview</a></div>`); err != nil {
				return err
			}
		}
		if err := renderNav(w, props.Nav); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main>`); err != nil {
			return err
		}
		if children := templ.GetChildren(ctx); children != nil {
			if err := children.Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</main>`); err != nil {
			return err
		}
		if err := renderFooter(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func renderNav(w io.Writer, links []NavLink) error {
	if _, err := fmt.Fprintf(w, `<header class="site-header"><nav><a class="brand" href="/">%s</a><ul>`, text(AppName)); err != nil {
		return err
	}
	for _, link := range links {
		current := ""
		if link.Current {
			current = ` aria-current="page"`
		}
		if _, err := fmt.Fprintf(w, `<li><a href="%s"%s>%s</a></li>`, href(link.URL), current, text(link.Label)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</ul></nav></header>`)
	return err
}

func renderFooter(w io.Writer) error {
	_, err := fmt.Fprintf(w, `<footer class="site-footer"><p>%s</p></footer>`, text("© "+AppName))
	return err
}

func assetQuery(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	return "?v=" + attr(version)
}

// text escapes a value for HTML text content.
func text(value string) string {
	return templ.EscapeString(value)
}

// attr escapes a value for a double-quoted HTML attribute.
func attr(value string) string {
	return templ.EscapeString(value)
}

// href sanitizes and escapes a URL attribute value.
func href(value string) string {
	return templ.EscapeString(string(templ.URL(strings.TrimSpace(value))))
}
