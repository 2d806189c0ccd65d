package collect

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/httpx"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/requestmeta"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/visitor"
	"github.com/lumastack/lumastack.com/internal/telemetry"
)

// maxBodyBytes bounds a beacon body well above any legitimate batch.
const maxBodyBytes = 32 << 10

type handlers struct {
	svc  service
	deps module.Dependencies
}

func newHandlers(svc service, deps module.Dependencies) handlers {
	return handlers{svc: svc, deps: deps}
}

// payload is the beacon body sent by the client tracker.
type payload struct {
	Page       string   `json:"page"`
	Milestones []string `json:"milestones"`
}

type response struct {
	Accepted int `json:"accepted"`
}

func (h handlers) handleCollect(w http.ResponseWriter, r *http.Request) {
	if !requestmeta.HasSameOriginProof(r) {
		http.Error(w, "cross-origin collect rejected", http.StatusForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var body payload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_ = httpx.WriteJSONError(w, apperrors.Wrap(apperrors.CodeCollectPayloadInvalid, "collect payload is not valid JSON", err))
		return
	}

	// The beacon is passive: identity is read without refreshing cookies so
	// background requests never extend the session window.
	v := module.Visitor{}
	v.ID, _ = visitor.IDFromRequest(r)
	v.SessionID, _ = visitor.SessionFromRequest(r)

	accepted, err := h.svc.record(r.Context(), v, body.Page, body.Milestones)
	if err != nil {
		h.emitRejected(r, body.Page, err)
		_ = httpx.WriteJSONError(w, err)
		return
	}
	if h.deps.Capturer == nil || h.deps.Capturer.Disabled() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusAccepted, response{Accepted: accepted})
}

func (h handlers) emitRejected(r *http.Request, page string, err error) {
	_ = h.deps.Emitter.Emit(r.Context(), telemetry.Event{
		EventName: "collect_rejected",
		Severity:  telemetry.SeverityWarn,
		Component: "collect",
		Path:      page,
		RequestID: r.Header.Get("X-Request-ID"),
		Attributes: map[string]any{
			"error": err.Error(),
			"code":  string(apperrors.CodeOf(err)),
		},
	})
}
