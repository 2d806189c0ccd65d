package pages

import (
	"net/http"

	"github.com/lumastack/lumastack.com/internal/services/site/blocks"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/pagerender"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/pageview"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/previewstate"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/sitelocale"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/weberror"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
	"github.com/lumastack/lumastack.com/internal/telemetry"
)

type handlers struct {
	svc  service
	deps module.Dependencies
}

func newHandlers(svc service, deps module.Dependencies) handlers {
	return handlers{svc: svc, deps: deps}
}

func (h handlers) handlePage(w http.ResponseWriter, r *http.Request) {
	path := routepath.Normalize(r.URL.Path)
	preview := previewstate.Active(r, h.deps.PreviewSecret) && h.deps.PreviewContent != nil

	visitor := module.Visitor{}
	if h.deps.ResolveVisitor != nil {
		visitor = h.deps.ResolveVisitor(w, r)
	}
	audience := module.Personalization{}
	if h.deps.ResolvePersonalization != nil {
		audience = h.deps.ResolvePersonalization(w, r)
	}

	rc := blocks.RenderContext{
		Locale:          sitelocale.Resolve(r, h.deps.DefaultLocale),
		Path:            path,
		Visitor:         visitor,
		Personalization: audience,
		Experiments:     h.deps.Experiments,
	}

	result, err := h.svc.resolvePage(r.Context(), rc, preview)
	if err != nil {
		h.emitResolveFailure(r, rc, err)
		chrome := pagerender.Chrome{
			Nav:          h.svc.nav(r.Context(), rc.Locale, path, preview),
			AssetVersion: h.deps.AssetVersion,
			Preview:      preview,
		}
		weberror.WriteModuleError(w, r, err, chrome)
		return
	}
	if result.Redirect != "" {
		http.Redirect(w, r, result.Redirect, http.StatusFound)
		return
	}

	pageview.Capture(r.Context(), h.deps.Capturer, pageview.View{
		Path:            rc.Path,
		Title:           result.Meta.Title,
		Locale:          rc.Locale,
		Referrer:        r.Referer(),
		Visitor:         rc.Visitor,
		Personalization: rc.Personalization,
	}, h.svc.logger)

	chrome := pagerender.Chrome{Nav: result.Nav, AssetVersion: h.deps.AssetVersion, Preview: preview}
	if err := pagerender.WritePage(w, r, chrome, pagerender.Page{Meta: result.Meta, Fragment: result.Fragment}); err != nil {
		h.svc.logger.Printf("page render failed path=%s err=%v", path, err)
		weberror.WriteAppError(w, r, http.StatusInternalServerError, chrome)
	}
}

func (h handlers) emitResolveFailure(r *http.Request, rc blocks.RenderContext, err error) {
	_ = h.deps.Emitter.Emit(r.Context(), telemetry.Event{
		EventName: "page_resolve_failed",
		Severity:  telemetry.SeverityWarn,
		Component: "pages",
		Locale:    rc.Locale,
		Path:      rc.Path,
		VisitorID: rc.Visitor.ID,
		RequestID: r.Header.Get("X-Request-ID"),
		Attributes: map[string]any{
			"error": err.Error(),
		},
	})
}

