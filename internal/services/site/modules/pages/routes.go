package pages

import "net/http"

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" /", h.handlePage)
	mux.HandleFunc(http.MethodHead+" /", h.handlePage)
}
