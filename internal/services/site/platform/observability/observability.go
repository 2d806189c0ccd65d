// Package observability provides request logging middleware for the site.
package observability

import (
	"log"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/lumastack/lumastack.com/internal/services/site/platform/httpx"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(status int) {
	if rec.status == 0 {
		rec.status = status
	}
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(p []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(p)
	rec.bytes += n
	return n, err
}

// RequestLogger logs one line per request with method, path, status, size,
// latency, and the correlation ids. The trace id comes from the span started
// by the outer otelhttp handler, so log lines join up with exported traces.
func RequestLogger(logger *log.Logger) httpx.Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			path := "-"
			method := "-"
			requestID := "-"
			traceID := "-"
			if r != nil {
				path = strings.TrimSpace(r.URL.Path)
				method = strings.TrimSpace(r.Method)
				if rid := strings.TrimSpace(r.Header.Get("X-Request-ID")); rid != "" {
					requestID = rid
				}
				if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
					traceID = sc.TraceID().String()
				}
			}
			logger.Printf(
				"http request method=%s path=%s status=%d bytes=%d latency=%s request_id=%s trace_id=%s",
				method,
				path,
				status,
				rec.bytes,
				time.Since(start).Round(time.Microsecond),
				requestID,
				traceID,
			)
		})
	}
}
