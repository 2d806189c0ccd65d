// Package content provides the headless content API layer: typed records,
// a REST client, a read-through cache, and a file-backed source for local
// fixtures. Pages, posts, and blocks all resolve their data through the
// Source interface so the site never depends on a concrete backend.
package content

import (
	"context"
	"encoding/json"
	"time"

	platformerrors "github.com/lumastack/lumastack.com/internal/platform/errors"
)

// Kind classifies content resources for caching and storage.
type Kind string

const (
	KindSitemap Kind = "sitemap"
	KindPage    Kind = "page"
	KindItem    Kind = "item"
	KindList    Kind = "list"
)

// Mode selects published or draft content.
type Mode string

const (
	ModeLive    Mode = "live"
	ModePreview Mode = "preview"
)

// Item is a single content record. Fields holds the raw schema-defined
// payload; blocks decode it into their own field structs.
type Item struct {
	ID        string          `json:"id"`
	Ref       string          `json:"ref,omitempty"`
	Locale    string          `json:"locale"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Fields    json.RawMessage `json:"fields"`
}

// List is one page of a content list plus the total count across pages.
type List struct {
	Items      []Item `json:"items"`
	TotalCount int    `json:"totalCount"`
}

// BlockRef names one content block placed on a page.
type BlockRef struct {
	Type   string `json:"type"`
	ItemID string `json:"itemID"`
}

// Zone is a named region of a page holding an ordered run of blocks.
type Zone struct {
	Name   string     `json:"name"`
	Blocks []BlockRef `json:"blocks"`
}

// SEO carries page-level metadata rendered into the HTML head.
type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	OGImage     string `json:"ogImage,omitempty"`
	NoIndex     bool   `json:"noIndex,omitempty"`
}

// Page is a renderable page definition.
type Page struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	SEO   SEO    `json:"seo"`
	Zones []Zone `json:"zones"`
}

// SitemapNode maps a request path to a page. Redirect, when set, names the
// path the node forwards to instead of rendering.
type SitemapNode struct {
	Path     string `json:"path"`
	PageID   string `json:"pageID,omitempty"`
	Title    string `json:"title,omitempty"`
	Visible  bool   `json:"visible"`
	Redirect string `json:"redirect,omitempty"`
}

// Query bounds a content list fetch. Zero Take means the source default.
type Query struct {
	Take int
	Skip int
}

// Source provides content lookups for a single mode. Implementations must
// return an error carrying CodeContentNotFound when the resource does not
// exist so callers can distinguish absence from outage.
type Source interface {
	GetSitemap(ctx context.Context, locale string) ([]SitemapNode, error)
	GetPage(ctx context.Context, locale, pageID string) (Page, error)
	GetItem(ctx context.Context, locale, itemID string) (Item, error)
	GetList(ctx context.Context, locale, ref string, q Query) (List, error)
}

// DecodeFields unmarshals an item's raw fields into target.
func DecodeFields(item Item, target any) error {
	if len(item.Fields) == 0 {
		return platformerrors.WithMetadata(platformerrors.CodeContentDecodeFailed, "content item has no fields", map[string]string{"item": item.ID})
	}
	if err := json.Unmarshal(item.Fields, target); err != nil {
		return platformerrors.Wrap(platformerrors.CodeContentDecodeFailed, "decode content fields for "+item.ID, err)
	}
	return nil
}
