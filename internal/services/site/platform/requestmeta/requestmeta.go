// Package requestmeta inspects transport-level request metadata.
package requestmeta

import (
	"net/http"
	"net/url"
	"strings"
)

// IsHTTPS reports whether the request arrived over TLS, directly or through
// a forwarding proxy.
func IsHTTPS(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https") {
		return true
	}
	return r.URL != nil && r.URL.Scheme == "https"
}

// HasSameOriginProof reports whether the Origin or Referer header proves the
// request came from this site's own pages. Browser beacons must carry one.
func HasSameOriginProof(r *http.Request) bool {
	if r == nil {
		return false
	}
	host := strings.TrimSpace(r.Host)
	if host == "" {
		return false
	}
	scheme := "http"
	if IsHTTPS(r) {
		scheme = "https"
	}

	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		return matchesOrigin(origin, scheme, host)
	}
	if referer := strings.TrimSpace(r.Header.Get("Referer")); referer != "" {
		return matchesOrigin(referer, scheme, host)
	}
	return false
}

func matchesOrigin(raw, scheme, host string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme == scheme && parsed.Host == host
}
