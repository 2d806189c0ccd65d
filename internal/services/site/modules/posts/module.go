// Package posts serves the blog listing and post detail pages from the CMS
// posts list.
package posts

import (
	"net/http"

	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

// Module provides the blog routes under /blog.
type Module struct{}

// New returns the posts module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "posts" }

// Mount wires the blog routes.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(deps), deps)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Blog, Handler: mux}, nil
}
