package posts

import (
	"net/http"
	"strconv"

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

// requestState carries the per-request context shared by the blog handlers.
type requestState struct {
	path            string
	locale          string
	preview         bool
	visitor         module.Visitor
	personalization module.Personalization
}

func (h handlers) state(w http.ResponseWriter, r *http.Request) requestState {
	st := requestState{
		path:    routepath.Normalize(r.URL.Path),
		locale:  sitelocale.Resolve(r, h.deps.DefaultLocale),
		preview: previewstate.Active(r, h.deps.PreviewSecret) && h.deps.PreviewContent != nil,
	}
	if h.deps.ResolveVisitor != nil {
		st.visitor = h.deps.ResolveVisitor(w, r)
	}
	if h.deps.ResolvePersonalization != nil {
		st.personalization = h.deps.ResolvePersonalization(w, r)
	}
	return st
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	st := h.state(w, r)
	result, err := h.svc.resolveList(r.Context(), st.locale, pageNumber(r), st.preview)
	h.finish(w, r, st, result, err)
}

func (h handlers) handlePost(w http.ResponseWriter, r *http.Request) {
	st := h.state(w, r)
	result, err := h.svc.resolvePost(r.Context(), st.locale, r.PathValue("slug"), st.preview)
	h.finish(w, r, st, result, err)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	st := h.state(w, r)
	weberror.WriteAppError(w, r, http.StatusNotFound, h.chrome(r, st))
}

func (h handlers) finish(w http.ResponseWriter, r *http.Request, st requestState, result pageResult, err error) {
	if err != nil {
		h.emitResolveFailure(r, st, err)
		weberror.WriteModuleError(w, r, err, h.chrome(r, st))
		return
	}

	pageview.Capture(r.Context(), h.deps.Capturer, pageview.View{
		Path:            st.path,
		Title:           result.Meta.Title,
		Locale:          st.locale,
		Referrer:        r.Referer(),
		Visitor:         st.visitor,
		Personalization: st.personalization,
	}, h.svc.logger)

	chrome := h.chrome(r, st)
	if err := pagerender.WritePage(w, r, chrome, pagerender.Page{Meta: result.Meta, Fragment: result.Fragment}); err != nil {
		h.svc.logger.Printf("post render failed path=%s err=%v", st.path, err)
		weberror.WriteAppError(w, r, http.StatusInternalServerError, chrome)
	}
}

func (h handlers) chrome(r *http.Request, st requestState) pagerender.Chrome {
	return pagerender.Chrome{
		Nav:          h.svc.nav(r.Context(), st.locale, st.path, st.preview),
		AssetVersion: h.deps.AssetVersion,
		Preview:      st.preview,
	}
}

func (h handlers) emitResolveFailure(r *http.Request, st requestState, err error) {
	_ = h.deps.Emitter.Emit(r.Context(), telemetry.Event{
		EventName: "post_resolve_failed",
		Severity:  telemetry.SeverityWarn,
		Component: "posts",
		Locale:    st.locale,
		Path:      st.path,
		VisitorID: st.visitor.ID,
		RequestID: r.Header.Get("X-Request-ID"),
		Attributes: map[string]any{
			"error": err.Error(),
		},
	})
}

// pageNumber reads the 1-based page query parameter. Absent or malformed
// values serve the first page.
func pageNumber(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
