// Package seo serves the crawler surface: robots.txt and the XML sitemap.
package seo

import (
	"net/http"

	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

// Module serves one crawler route. The package exposes a constructor per
// route because both are exact file paths rather than subtrees.
type Module struct {
	id       string
	prefix   string
	register func(mux *http.ServeMux, h handlers)
}

// NewRobots returns the robots.txt module.
func NewRobots() Module {
	return Module{id: "robots", prefix: routepath.Robots, register: registerRobotsRoutes}
}

// NewSitemap returns the sitemap.xml module.
func NewSitemap() Module {
	return Module{id: "sitemap", prefix: routepath.Sitemap, register: registerSitemapRoutes}
}

// ID returns a stable module identifier.
func (m Module) ID() string { return m.id }

// Mount wires the crawler route.
func (m Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(deps))
	m.register(mux, h)
	return module.Mount{Prefix: m.prefix, Handler: mux}, nil
}
