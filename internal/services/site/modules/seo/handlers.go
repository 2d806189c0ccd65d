package seo

import (
	"io"
	"net/http"

	apperrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/weberror"
)

type handlers struct {
	svc service
}

func newHandlers(svc service) handlers {
	return handlers{svc: svc}
}

func (h handlers) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, h.svc.robotsBody())
}

func (h handlers) handleSitemap(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.sitemapXML(r.Context())
	if err != nil {
		h.svc.logger.Printf("sitemap render failed err=%v", err)
		// Crawlers get plain text, never the HTML error page.
		http.Error(w, weberror.PublicMessage(err), apperrors.CodeOf(err).HTTPStatus())
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}
