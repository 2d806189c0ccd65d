package app

import (
	"net/http"

	"github.com/lumastack/lumastack.com/internal/services/site/personalization"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/visitor"
)

// BuildRootHandler composes a root mux from the configured module set.
// Nil request resolvers fall back to the cookie-backed implementations so
// composition callers only override them in tests.
func BuildRootHandler(cfg Config) (http.Handler, error) {
	composer := Composer{}
	deps := cfg.Dependencies
	if deps.ResolveVisitor == nil {
		deps.ResolveVisitor = visitor.Resolve
	}
	if deps.ResolvePersonalization == nil {
		deps.ResolvePersonalization = personalization.Resolve
	}
	return composer.Compose(ComposeInput{
		Dependencies: deps,
		Modules:      cfg.Modules,
	})
}
