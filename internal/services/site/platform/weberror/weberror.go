// Package weberror renders shared error responses for site modules.
package weberror

import (
	"net/http"
	"strings"

	apperrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/pagerender"
	"github.com/lumastack/lumastack.com/internal/services/site/templates"
)

// ShouldRenderAppError reports whether status should use the error-page UX.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe message for err. Raw error text never
// reaches the response.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	statusCode := apperrors.CodeOf(err).HTTPStatus()
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	if text := strings.TrimSpace(http.StatusText(statusCode)); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}

// WriteAppError writes a full error page for statusCode.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, chrome pagerender.Chrome) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	err := pagerender.WritePage(w, r, chrome, pagerender.Page{
		Meta:       templates.PageMeta{Title: templates.ErrorPageTitle(statusCode), NoIndex: true},
		StatusCode: statusCode,
		Fragment:   templates.ErrorPage(statusCode),
	})
	if err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteModuleError writes an error response routed by the error's HTTP status:
// not-found and server errors get the error page, everything else plain text.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, chrome pagerender.Chrome) {
	if w == nil {
		return
	}
	statusCode := apperrors.CodeOf(err).HTTPStatus()
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, chrome)
		return
	}
	http.Error(w, PublicMessage(err), statusCode)
}
