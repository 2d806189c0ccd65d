// Package sitelocale resolves the content locale served to a request.
package sitelocale

import "net/http"

// Param is the query parameter that overrides the served locale.
const Param = "locale"

// Default is the locale served when neither the request nor configuration
// picks one.
const Default = "en-US"

// supported lists the locales the CMS publishes.
var supported = map[string]bool{
	"en-US": true,
	"fr-FR": true,
}

// Supported reports whether locale is one the CMS publishes.
func Supported(locale string) bool {
	return supported[locale]
}

// Resolve returns the locale for a request: an explicit supported override
// wins, then the configured fallback, then Default.
func Resolve(r *http.Request, fallback string) string {
	if r != nil {
		if locale := r.URL.Query().Get(Param); Supported(locale) {
			return locale
		}
	}
	if fallback == "" {
		return Default
	}
	return fallback
}
