package collect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/visitor"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

func newTestDeps(t *testing.T) (module.Dependencies, *fakeMilestones, *fakeCapturer) {
	t.Helper()
	milestones := &fakeMilestones{}
	capture := &fakeCapturer{}
	return module.Dependencies{
		Milestones: milestones,
		Capturer:   capture,
	}, milestones, capture
}

func mountedHandler(t *testing.T, deps module.Dependencies) http.Handler {
	t.Helper()
	mount, err := New().Mount(deps)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if mount.Prefix != routepath.Collect {
		t.Fatalf("prefix = %q, want %q", mount.Prefix, routepath.Collect)
	}
	return mount.Handler
}

// beaconRequest builds a same-origin beacon with visitor cookies attached.
func beaconRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, routepath.Collect, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Origin", "http://"+r.Host)
	r.AddCookie(&http.Cookie{Name: visitor.IDCookie, Value: "visitor-1"})
	r.AddCookie(&http.Cookie{Name: visitor.SessionCookie, Value: "session-1"})
	return r
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var decoded map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return decoded
}

func TestRegisterRoutesHandlesNilMux(t *testing.T) {
	t.Parallel()

	registerRoutes(nil, handlers{})
}

func TestHandleCollectRecordsMilestones(t *testing.T) {
	t.Parallel()

	deps, _, capture := newTestDeps(t)
	h := mountedHandler(t, deps)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, beaconRequest(t, `{"page":"/pricing","milestones":["scroll_25","time_10"]}`))

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusAccepted, rr.Body.String())
	}
	if got := decodeResponse(t, rr)["accepted"]; got != float64(2) {
		t.Fatalf("accepted = %v, want 2", got)
	}

	events := capture.captured()
	if len(events) != 2 {
		t.Fatalf("captured %d events, want 2", len(events))
	}
	first := events[0]
	if first.Name != MilestoneEvent || first.DistinctID != "visitor-1" {
		t.Fatalf("event = %+v", first)
	}
	if first.Properties["milestone"] != "scroll_25" || first.Properties["page_path"] != "/pricing" || first.Properties["session_id"] != "session-1" {
		t.Fatalf("event properties = %+v", first.Properties)
	}
	if first.Properties["scroll_depth_pct"] != 25 {
		t.Fatalf("scroll depth = %v, want 25", first.Properties["scroll_depth_pct"])
	}
	if second := events[1]; second.Properties["seconds_on_page"] != 10 {
		t.Fatalf("seconds on page = %v, want 10", second.Properties["seconds_on_page"])
	}
}

func TestHandleCollectDedupesRepeatedBeacons(t *testing.T) {
	t.Parallel()

	deps, _, capture := newTestDeps(t)
	h := mountedHandler(t, deps)

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, beaconRequest(t, `{"page":"/pricing","milestones":["scroll_50"]}`))
		if rr.Code != http.StatusAccepted {
			t.Fatalf("status = %d", rr.Code)
		}
		want := float64(1 - i)
		if got := decodeResponse(t, rr)["accepted"]; got != want {
			t.Fatalf("beacon %d accepted = %v, want %v", i, got, want)
		}
	}
	if events := capture.captured(); len(events) != 1 {
		t.Fatalf("captured %d events, want the milestone once", len(events))
	}
}

func TestHandleCollectWithoutAnalyticsReturnsNoContent(t *testing.T) {
	t.Parallel()

	deps, milestones, capture := newTestDeps(t)
	capture.disabled = true
	h := mountedHandler(t, deps)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, beaconRequest(t, `{"page":"/pricing","milestones":["scroll_25"]}`))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("body = %q, want empty", rr.Body.String())
	}
	if len(capture.captured()) != 0 {
		t.Fatal("disabled capturer must not receive events")
	}

	// The milestone is still recorded, so re-enabling analytics later does
	// not replay it.
	if fresh, err := milestones.MarkEngagementMilestone(context.Background(), "session-1", "/pricing", "scroll_25"); err != nil || fresh {
		t.Fatalf("milestone fresh = %v, err = %v, want already recorded", fresh, err)
	}
}

func TestHandleCollectRejectsCrossOrigin(t *testing.T) {
	t.Parallel()

	deps, _, capture := newTestDeps(t)
	h := mountedHandler(t, deps)

	// No origin proof at all.
	bare := httptest.NewRequest(http.MethodPost, routepath.Collect, strings.NewReader(`{"page":"/","milestones":["time_10"]}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, bare)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}

	// Foreign origin.
	foreign := beaconRequest(t, `{"page":"/","milestones":["time_10"]}`)
	foreign.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, foreign)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}

	if len(capture.captured()) != 0 {
		t.Fatal("rejected beacons must not reach analytics")
	}
}

func TestHandleCollectValidationFailures(t *testing.T) {
	t.Parallel()

	tooMany := make([]string, 0, MaxBatch+1)
	for i := 0; i <= MaxBatch; i++ {
		tooMany = append(tooMany, `"scroll_25"`)
	}

	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   apperrors.Code
	}{
		{"malformed json", `{"page":`, http.StatusBadRequest, apperrors.CodeCollectPayloadInvalid},
		{"missing page", `{"milestones":["scroll_25"]}`, http.StatusBadRequest, apperrors.CodeCollectPageEmpty},
		{"empty batch", `{"page":"/","milestones":[]}`, http.StatusBadRequest, apperrors.CodeCollectPayloadInvalid},
		{"unknown milestone", `{"page":"/","milestones":["scroll_33"]}`, http.StatusBadRequest, apperrors.CodeCollectMilestoneUnknown},
		{"batch too large", `{"page":"/","milestones":[` + strings.Join(tooMany, ",") + `]}`, http.StatusRequestEntityTooLarge, apperrors.CodeCollectBatchTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			deps, _, capture := newTestDeps(t)
			h := mountedHandler(t, deps)

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, beaconRequest(t, tc.body))
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tc.wantStatus, rr.Body.String())
			}
			if got := decodeResponse(t, rr)["code"]; got != string(tc.wantCode) {
				t.Fatalf("code = %v, want %v", got, tc.wantCode)
			}
			if len(capture.captured()) != 0 {
				t.Fatal("invalid beacons must not reach analytics")
			}
		})
	}
}

func TestHandleCollectRequiresSession(t *testing.T) {
	t.Parallel()

	deps, _, _ := newTestDeps(t)
	h := mountedHandler(t, deps)

	r := httptest.NewRequest(http.MethodPost, routepath.Collect, strings.NewReader(`{"page":"/","milestones":["time_10"]}`))
	r.Header.Set("Origin", "http://"+r.Host)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if got := decodeResponse(t, rr)["code"]; got != string(apperrors.CodeCollectSessionEmpty) {
		t.Fatalf("code = %v", got)
	}
}

func TestHandleCollectStorageFailure(t *testing.T) {
	t.Parallel()

	deps, milestones, _ := newTestDeps(t)
	milestones.err = apperrors.New(apperrors.CodeStorageUnavailable, "session store offline")
	h := mountedHandler(t, deps)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, beaconRequest(t, `{"page":"/","milestones":["time_10"]}`))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestHandleCollectMethodContract(t *testing.T) {
	t.Parallel()

	deps, _, _ := newTestDeps(t)
	h := mountedHandler(t, deps)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Collect, nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}
