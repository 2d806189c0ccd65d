// Package pages serves sitemap-driven marketing pages composed from CMS
// content blocks.
package pages

import (
	"net/http"

	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

// Module provides the sitemap-driven page routes at the site root.
type Module struct{}

// New returns the pages module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "pages" }

// Mount wires the root page routes.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(deps), deps)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
