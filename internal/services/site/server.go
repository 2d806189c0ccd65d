// Package site hosts the browser-facing marketing website service.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lumastack/lumastack.com/internal/content"
	"github.com/lumastack/lumastack.com/internal/platform/timeouts"
	siteapp "github.com/lumastack/lumastack.com/internal/services/site/app"
	module "github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/modules"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/httpx"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/observability"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
	sitestatic "github.com/lumastack/lumastack.com/internal/services/site/static"
	"github.com/lumastack/lumastack.com/internal/telemetry"
)

// Config defines startup inputs for the site service.
type Config struct {
	HTTPAddr      string
	BaseURL       string
	DefaultLocale string
	AssetVersion  string
	RobotsAllow   bool
	PreviewSecret []byte

	Content        content.Source
	PreviewContent content.Source
	Capturer       module.Capturer
	Experiments    module.ExperimentPicker
	Milestones     module.MilestoneRecorder
	Emitter        *telemetry.Emitter
}

// Server hosts the site HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds a root handler from the default module registry.
func NewHandler(cfg Config) (http.Handler, error) {
	deps := module.Dependencies{
		Content:        cfg.Content,
		PreviewContent: cfg.PreviewContent,
		Capturer:       cfg.Capturer,
		Experiments:    cfg.Experiments,
		Milestones:     cfg.Milestones,
		Emitter:        cfg.Emitter,
		PreviewSecret:  cfg.PreviewSecret,
		DefaultLocale:  cfg.DefaultLocale,
		BaseURL:        cfg.BaseURL,
		AssetVersion:   cfg.AssetVersion,
		RobotsAllow:    cfg.RobotsAllow,
	}
	h, err := siteapp.BuildRootHandler(siteapp.Config{
		Dependencies: deps,
		Modules:      modules.DefaultModules(),
	})
	if err != nil {
		return nil, err
	}
	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.Static, http.StripPrefix(routepath.Static, http.FileServer(http.FS(sitestatic.FS))))
	rootMux.HandleFunc(http.MethodGet+" "+routepath.Health, handleHealth)
	rootMux.Handle("/", h)
	chained := httpx.Chain(rootMux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		observability.RequestLogger(log.Default()),
	)
	// Outermost so every inner layer, request logs included, sees the span.
	return otelhttp.NewHandler(chained, "site.http"), nil
}

// handleHealth is a liveness probe. Content and analytics outages degrade
// page serving instead of failing it, so a running process is a healthy one.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// NewServer validates config and constructs a site server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose site handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("site server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown site http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve site http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
