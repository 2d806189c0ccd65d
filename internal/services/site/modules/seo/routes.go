package seo

import (
	"net/http"

	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

func registerRobotsRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Robots, h.handleRobots)
	mux.HandleFunc(http.MethodHead+" "+routepath.Robots, h.handleRobots)
}

func registerSitemapRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Sitemap, h.handleSitemap)
	mux.HandleFunc(http.MethodHead+" "+routepath.Sitemap, h.handleSitemap)
}
