// Package previewstate manages the preview-mode cookie shared by the preview
// entry routes and every page render.
package previewstate

import (
	"net/http"
	"time"

	"github.com/lumastack/lumastack.com/internal/content"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/requestmeta"
)

// Cookie stores the signed preview grant for the browser session.
const Cookie = "luma_preview"

const cookieMaxAge = int(time.Hour / time.Second)

// Set stores a verified preview token on the response.
func Set(w http.ResponseWriter, r *http.Request, token string) {
	if w == nil || token == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Cookie,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes the preview cookie.
func Clear(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// Active reports whether the request carries a valid preview grant. Expired
// or tampered tokens read as inactive; page renders fall back to published
// content rather than failing.
func Active(r *http.Request, secret []byte) bool {
	if r == nil || len(secret) == 0 {
		return false
	}
	cookie, err := r.Cookie(Cookie)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = content.VerifyPreviewToken(content.PreviewConfig{Secret: secret}, cookie.Value)
	return err == nil
}
