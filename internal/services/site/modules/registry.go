package modules

import (
	"github.com/lumastack/lumastack.com/internal/services/site/modules/collect"
	"github.com/lumastack/lumastack.com/internal/services/site/modules/pages"
	"github.com/lumastack/lumastack.com/internal/services/site/modules/posts"
	"github.com/lumastack/lumastack.com/internal/services/site/modules/preview"
	"github.com/lumastack/lumastack.com/internal/services/site/modules/seo"
)

// DefaultModules returns the stable site modules.
func DefaultModules() []Module {
	return []Module{
		pages.New(),
		posts.New(),
		collect.New(),
		seo.NewRobots(),
		seo.NewSitemap(),
		preview.New(),
	}
}
