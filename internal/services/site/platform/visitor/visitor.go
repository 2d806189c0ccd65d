// Package visitor centralizes anonymous visitor identity cookies.
//
// Identity is first-party and anonymous: a stable visitor id, a sliding
// session window, and a visit counter. No cookie value identifies a person.
package visitor

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/requestmeta"
)

// Cookie names.
const (
	IDCookie      = "luma_vid"
	SessionCookie = "luma_sid"
	VisitsCookie  = "luma_visits"
)

const (
	idMaxAge = int(365 * 24 * time.Hour / time.Second)
	// SessionWindow is the sliding idle window; every request extends it.
	SessionWindow = 30 * time.Minute
)

// Resolve reads or creates the visitor identity cookies for a request. The
// session cookie is refreshed on every call, so the window slides.
func Resolve(w http.ResponseWriter, r *http.Request) module.Visitor {
	id, hadID := readCookie(r, IDCookie)
	if !hadID {
		id = uuid.NewString()
	}

	sessionID, hadSession := readCookie(r, SessionCookie)
	newSession := !hadSession
	if newSession {
		sessionID = uuid.NewString()
	}

	visits := readVisits(r)
	if newSession {
		visits++
	}

	if w != nil {
		setCookie(w, r, IDCookie, id, idMaxAge)
		setCookie(w, r, SessionCookie, sessionID, int(SessionWindow/time.Second))
		setCookie(w, r, VisitsCookie, strconv.Itoa(visits), idMaxAge)
	}

	return module.Visitor{
		ID:         id,
		SessionID:  sessionID,
		VisitCount: visits,
		NewSession: newSession,
	}
}

// IDFromRequest reads the visitor id without refreshing any cookie.
func IDFromRequest(r *http.Request) (string, bool) {
	return readCookie(r, IDCookie)
}

// SessionFromRequest reads the session id without refreshing any cookie.
func SessionFromRequest(r *http.Request) (string, bool) {
	return readCookie(r, SessionCookie)
}

func readCookie(r *http.Request, name string) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

func readVisits(r *http.Request) int {
	raw, ok := readCookie(r, VisitsCookie)
	if !ok {
		return 0
	}
	visits, err := strconv.Atoi(raw)
	if err != nil || visits < 0 {
		return 0
	}
	return visits
}

func setCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}
