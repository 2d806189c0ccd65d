package content

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Tags the rich-text block may emit. Everything else is unwrapped: the tag
// disappears but its children survive.
var allowedTags = map[string]bool{
	"a": true, "p": true, "br": true, "hr": true,
	"strong": true, "em": true, "b": true, "i": true, "u": true, "s": true,
	"ul": true, "ol": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "code": true, "pre": true,
	"img": true, "figure": true, "figcaption": true,
	"table": true, "thead": true, "tbody": true, "tr": true, "th": true, "td": true,
	"span": true, "div": true,
}

// Tags whose entire subtree is dropped, text included.
var droppedTags = map[string]bool{
	"script": true, "style": true, "iframe": true, "object": true,
	"embed": true, "form": true, "noscript": true,
}

var allowedAttrs = map[string]bool{
	"href": true, "src": true, "alt": true, "title": true, "class": true,
	"width": true, "height": true, "loading": true, "target": true, "rel": true,
}

var voidTags = map[string]bool{"br": true, "hr": true, "img": true}

// SanitizeRichText strips unsafe markup from CMS-authored HTML: script-like
// subtrees, event handler attributes, and javascript URLs. Unknown tags are
// unwrapped rather than dropped so imperfect CMS markup still renders its
// text.
func SanitizeRichText(input string) string {
	var out strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(input))
	dropDepth := 0

	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			return out.String()
		}
		token := tokenizer.Token()

		switch tokenType {
		case html.TextToken:
			if dropDepth == 0 {
				out.WriteString(html.EscapeString(token.Data))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name := token.Data
			if droppedTags[name] {
				if tokenType == html.StartTagToken && !voidTags[name] {
					dropDepth++
				}
				continue
			}
			if dropDepth > 0 || !allowedTags[name] {
				continue
			}
			writeTag(&out, name, token.Attr, tokenType == html.SelfClosingTagToken)
		case html.EndTagToken:
			name := token.Data
			if droppedTags[name] {
				if dropDepth > 0 {
					dropDepth--
				}
				continue
			}
			if dropDepth > 0 || !allowedTags[name] || voidTags[name] {
				continue
			}
			out.WriteString("</" + name + ">")
		case html.CommentToken, html.DoctypeToken:
			// dropped
		}
	}
}

func writeTag(out *strings.Builder, name string, attrs []html.Attribute, selfClosing bool) {
	out.WriteString("<" + name)
	targetBlank := false
	hasRel := false
	for _, attr := range attrs {
		key := strings.ToLower(attr.Key)
		if !allowedAttrs[key] {
			continue
		}
		if (key == "href" || key == "src") && !safeURL(attr.Val) {
			continue
		}
		if key == "target" && attr.Val == "_blank" {
			targetBlank = true
		}
		if key == "rel" {
			hasRel = true
		}
		out.WriteString(" " + key + `="` + html.EscapeString(attr.Val) + `"`)
	}
	if name == "a" && targetBlank && !hasRel {
		out.WriteString(` rel="noopener"`)
	}
	if selfClosing {
		out.WriteString("/>")
		return
	}
	out.WriteString(">")
}

func safeURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "", "http", "https", "mailto":
		return true
	}
	return false
}
