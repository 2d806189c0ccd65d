// Package collect ingests the engagement beacon posted by the client-side
// tracker: scroll depth and time-on-page milestones, deduplicated per
// session and page before they reach product analytics.
package collect

import (
	"net/http"

	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

// Module provides the collect endpoint.
type Module struct{}

// New returns the collect module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "collect" }

// Mount wires the collect route.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(deps), deps)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Collect, Handler: mux}, nil
}
