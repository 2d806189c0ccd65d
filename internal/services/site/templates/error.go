package templates

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// ErrorPageTitle returns the browser page title for error pages.
func ErrorPageTitle(statusCode int) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return "Page not found"
	}
	return "Something went wrong"
}

func errorHeading(statusCode int) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return "Page not found"
	}
	return "Something went wrong"
}

func errorMessage(statusCode int) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return "The page you are looking for does not exist or has moved."
	}
	return "An unexpected error occurred. Please try again in a moment."
}

func normalizeErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ErrorPage renders the body of an error page for the given status.
func ErrorPage(statusCode int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<section class="error-page"><p class="status">%d</p><h1>%s</h1><p>%s</p><p><a href="/">Back to home</a></p></section>`,
			normalizeErrorStatus(statusCode), text(errorHeading(statusCode)), text(errorMessage(statusCode)))
		return err
	})
}
