package preview

import (
	"net/http"
	"strings"

	apperrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/pagerender"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/previewstate"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/sitelocale"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/weberror"
	"github.com/lumastack/lumastack.com/internal/telemetry"
)

type handlers struct {
	svc  service
	deps module.Dependencies
}

func newHandlers(svc service, deps module.Dependencies) handlers {
	return handlers{svc: svc, deps: deps}
}

func (h handlers) handleEnter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	token := strings.TrimSpace(query.Get("token"))

	target, err := h.svc.authorize(token, query.Get("redirect"))
	if err != nil {
		h.emit(r, "preview_rejected", telemetry.SeverityWarn, map[string]any{
			"error": err.Error(),
			"code":  string(apperrors.CodeOf(err)),
		})
		locale := sitelocale.Resolve(r, h.deps.DefaultLocale)
		weberror.WriteModuleError(w, r, err, pagerender.Chrome{
			Nav:          h.svc.nav(r.Context(), locale, r.URL.Path),
			AssetVersion: h.deps.AssetVersion,
		})
		return
	}

	previewstate.Set(w, r, token)
	h.emit(r, "preview_entered", telemetry.SeverityInfo, map[string]any{"redirect": target})
	http.Redirect(w, r, target, http.StatusFound)
}

func (h handlers) handleExit(w http.ResponseWriter, r *http.Request) {
	previewstate.Clear(w, r)
	h.emit(r, "preview_exited", telemetry.SeverityInfo, nil)
	http.Redirect(w, r, safeRedirect(r.URL.Query().Get("redirect")), http.StatusFound)
}

func (h handlers) emit(r *http.Request, event string, severity telemetry.Severity, attrs map[string]any) {
	_ = h.deps.Emitter.Emit(r.Context(), telemetry.Event{
		EventName:  event,
		Severity:   severity,
		Component:  "preview",
		Path:       r.URL.Path,
		RequestID:  r.Header.Get("X-Request-ID"),
		Attributes: attrs,
	})
}
