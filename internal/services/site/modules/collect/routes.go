package collect

import (
	"net/http"

	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodPost+" "+routepath.Collect, h.handleCollect)
}
