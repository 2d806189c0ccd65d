// Package preview manages entry to and exit from draft-content preview.
// Editors arrive through signed links minted by the CMS tooling; the grant
// then rides a cookie so normal page routes can serve drafts.
package preview

import (
	"net/http"

	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

// Module provides the preview entry and exit routes.
type Module struct{}

// New returns the preview module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "preview" }

// Mount wires the preview routes.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(deps), deps)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Preview, Handler: mux}, nil
}
