package posts

import (
	"net/http"

	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Blog, h.handleList)
	mux.HandleFunc(http.MethodHead+" "+routepath.Blog, h.handleList)
	mux.HandleFunc(http.MethodGet+" "+routepath.BlogDir+"{$}", h.handleList)
	mux.HandleFunc(http.MethodGet+" "+routepath.BlogPostPattern, h.handlePost)
	mux.HandleFunc(http.MethodHead+" "+routepath.BlogPostPattern, h.handlePost)
	// Deeper paths under /blog/ have no content; keep the branded not-found
	// page instead of the mux default.
	mux.HandleFunc(http.MethodGet+" "+routepath.BlogDir, h.handleNotFound)
}
