package preview

import (
	"net/http"

	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.PreviewEnter, h.handleEnter)
	mux.HandleFunc(http.MethodGet+" "+routepath.PreviewExit, h.handleExit)
}
