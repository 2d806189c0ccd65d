// Package blocks renders CMS content blocks into page sections. Each block
// type has a renderer that decodes the item's fields and emits a templ
// component; a registry dispatches by type and skips what it cannot render
// so a bad block never takes down a page.
package blocks

import (
	"context"
	"log"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"github.com/lumastack/lumastack.com/internal/content"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/templates"
)

// fetchLimit bounds concurrent item fetches per zone so one block-heavy page
// cannot monopolize upstream connections.
const fetchLimit = 4

// RenderContext carries per-request state into block renderers.
type RenderContext struct {
	Locale          string
	Path            string
	Visitor         module.Visitor
	Personalization module.Personalization
	Experiments     module.ExperimentPicker
}

// Renderer renders one block type.
type Renderer interface {
	Type() string
	Render(ctx context.Context, rc RenderContext, item content.Item) (templ.Component, error)
}

// Registry resolves block references to rendered sections.
type Registry struct {
	source    content.Source
	logger    *log.Logger
	renderers map[string]Renderer
}

// NewRegistry builds a registry over source. Later renderers with a
// duplicate type replace earlier ones.
func NewRegistry(source content.Source, logger *log.Logger, renderers ...Renderer) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	byType := make(map[string]Renderer, len(renderers))
	for _, renderer := range renderers {
		if renderer == nil {
			continue
		}
		byType[renderer.Type()] = renderer
	}
	return &Registry{source: source, logger: logger, renderers: byType}
}

// RenderZone renders a zone's blocks in order. Item fetches run concurrently
// under fetchLimit; unknown block types, item fetch failures, and renderer
// errors are logged and skipped.
func (reg *Registry) RenderZone(ctx context.Context, rc RenderContext, zone content.Zone) templ.Component {
	if reg == nil {
		return templates.Sections()
	}
	fetched := reg.fetchItems(ctx, rc, zone.Blocks)
	sections := make([]templ.Component, 0, len(zone.Blocks))
	for idx, ref := range zone.Blocks {
		component, ok := reg.renderBlock(ctx, rc, ref, fetched[idx])
		if !ok {
			continue
		}
		sections = append(sections, component)
	}
	return templates.Sections(sections...)
}

type fetchedItem struct {
	item content.Item
	err  error
}

// fetchItems resolves block items concurrently, preserving block order. A
// failed fetch is recorded, never returned, so one bad block cannot cancel
// its siblings.
func (reg *Registry) fetchItems(ctx context.Context, rc RenderContext, refs []content.BlockRef) []fetchedItem {
	fetched := make([]fetchedItem, len(refs))
	if reg.source == nil {
		return fetched
	}
	var group errgroup.Group
	group.SetLimit(fetchLimit)
	for idx, ref := range refs {
		if _, ok := reg.renderers[ref.Type]; !ok {
			continue
		}
		group.Go(func() error {
			item, err := reg.source.GetItem(ctx, rc.Locale, ref.ItemID)
			fetched[idx] = fetchedItem{item: item, err: err}
			return nil
		})
	}
	_ = group.Wait()
	return fetched
}

func (reg *Registry) renderBlock(ctx context.Context, rc RenderContext, ref content.BlockRef, fetched fetchedItem) (templ.Component, bool) {
	renderer, ok := reg.renderers[ref.Type]
	if !ok {
		reg.logger.Printf("block type unknown type=%s item=%s path=%s", ref.Type, ref.ItemID, rc.Path)
		return nil, false
	}
	if reg.source == nil {
		return nil, false
	}
	if fetched.err != nil {
		reg.logger.Printf("block item fetch failed type=%s item=%s err=%v", ref.Type, ref.ItemID, fetched.err)
		return nil, false
	}
	component, err := renderer.Render(ctx, rc, fetched.item)
	if err != nil {
		reg.logger.Printf("block render failed type=%s item=%s err=%v", ref.Type, ref.ItemID, err)
		return nil, false
	}
	return component, true
}

// Types lists the registered block types.
func (reg *Registry) Types() []string {
	if reg == nil {
		return nil
	}
	types := make([]string, 0, len(reg.renderers))
	for t := range reg.renderers {
		types = append(types, t)
	}
	return types
}
