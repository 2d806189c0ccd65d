// Package web parses site service configuration and launches the service.
package web

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lumastack/lumastack.com/internal/analytics"
	"github.com/lumastack/lumastack.com/internal/content"
	entrypoint "github.com/lumastack/lumastack.com/internal/platform/cmd"
	"github.com/lumastack/lumastack.com/internal/platform/timeouts"
	"github.com/lumastack/lumastack.com/internal/services/site"
	"github.com/lumastack/lumastack.com/internal/services/site/experiments"
	sitesqlite "github.com/lumastack/lumastack.com/internal/services/site/storage/sqlite"
	"github.com/lumastack/lumastack.com/internal/telemetry"
)

const defaultDBPath = "data/site.db"

// Config holds the web command configuration. API keys and the preview
// secret are environment-only; everything else can also be set by flag.
type Config struct {
	HTTPAddr      string `env:"LUMASTACK_HTTP_ADDR" envDefault:"localhost:8080"`
	BaseURL       string `env:"LUMASTACK_BASE_URL" envDefault:"http://localhost:8080"`
	DefaultLocale string `env:"LUMASTACK_DEFAULT_LOCALE" envDefault:"en-US"`
	AssetVersion  string `env:"LUMASTACK_ASSET_VERSION"`
	RobotsAllow   bool   `env:"LUMASTACK_ROBOTS_ALLOW" envDefault:"true"`
	PreviewSecret string `env:"LUMASTACK_PREVIEW_SECRET"`

	ContentAPIURL      string `env:"LUMASTACK_CONTENT_API_URL"`
	ContentAPIKey      string `env:"LUMASTACK_CONTENT_API_KEY"`
	ContentPreviewKey  string `env:"LUMASTACK_CONTENT_PREVIEW_KEY"`
	ContentFixturesDir string `env:"LUMASTACK_CONTENT_FIXTURES_DIR"`

	AnalyticsHost   string `env:"LUMASTACK_ANALYTICS_HOST"`
	AnalyticsAPIKey string `env:"LUMASTACK_ANALYTICS_API_KEY"`

	DBPath string `env:"LUMASTACK_DB_PATH" envDefault:"data/site.db"`
}

// ParseConfig parses environment defaults and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Public base URL for canonical and OG links")
	fs.StringVar(&cfg.DefaultLocale, "default-locale", cfg.DefaultLocale, "Locale served to visitors")
	fs.StringVar(&cfg.AssetVersion, "asset-version", cfg.AssetVersion, "Static asset cache-busting version")
	fs.BoolVar(&cfg.RobotsAllow, "robots-allow", cfg.RobotsAllow, "Allow crawlers in robots.txt")
	fs.StringVar(&cfg.ContentAPIURL, "content-api-url", cfg.ContentAPIURL, "Content API base URL")
	fs.StringVar(&cfg.ContentFixturesDir, "content-fixtures-dir", cfg.ContentFixturesDir, "Serve content from fixture files instead of the API")
	fs.StringVar(&cfg.AnalyticsHost, "analytics-host", cfg.AnalyticsHost, "Analytics ingest host")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Site sqlite database path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the site web service and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	dbPath := strings.TrimSpace(cfg.DBPath)
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create site storage dir: %w", err)
		}
	}
	store, err := sitesqlite.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open site sqlite store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close site sqlite store: %v", closeErr)
		}
	}()

	emitter := telemetry.NewEmitter(store)

	capturer, err := analytics.New(analytics.Config{
		Host:   cfg.AnalyticsHost,
		APIKey: cfg.AnalyticsAPIKey,
		Spool:  store,
	})
	if err != nil {
		return fmt.Errorf("init analytics client: %w", err)
	}
	flagEngine := analytics.NewFlags(analytics.FlagsConfig{
		Host:    cfg.AnalyticsHost,
		APIKey:  cfg.AnalyticsAPIKey,
		OnReady: capturer.MarkReady,
	})

	var (
		source   content.Source
		preview  content.Source
		fixtures *content.FileSource
	)
	switch {
	case strings.TrimSpace(cfg.ContentFixturesDir) != "":
		fileSource, err := content.NewFileSource(cfg.ContentFixturesDir)
		if err != nil {
			return fmt.Errorf("load content fixtures: %w", err)
		}
		fixtures = fileSource
		source = fileSource
		preview = fileSource
		log.Printf("content served from fixtures in %s", cfg.ContentFixturesDir)
	case strings.TrimSpace(cfg.ContentAPIURL) != "":
		client, err := content.NewClient(content.ClientConfig{
			BaseURL: cfg.ContentAPIURL,
			APIKey:  cfg.ContentAPIKey,
		})
		if err != nil {
			return fmt.Errorf("init content client: %w", err)
		}
		source = content.NewCachedSource(client, store, emitter)
		if strings.TrimSpace(cfg.ContentPreviewKey) != "" {
			previewClient, err := content.NewClient(content.ClientConfig{
				BaseURL:    cfg.ContentAPIURL,
				PreviewKey: cfg.ContentPreviewKey,
				Mode:       content.ModePreview,
			})
			if err != nil {
				return fmt.Errorf("init preview content client: %w", err)
			}
			preview = previewClient
		}
	default:
		log.Printf("no content source configured; pages degrade until one is set")
	}

	experimentEngine := experiments.NewEngine(experiments.Config{
		Flags:   flagEngine,
		Content: source,
		Capture: capturer,
	})

	var previewSecret []byte
	if secret := strings.TrimSpace(cfg.PreviewSecret); secret != "" {
		previewSecret = []byte(secret)
	}

	server, err := site.NewServer(ctx, site.Config{
		HTTPAddr:       cfg.HTTPAddr,
		BaseURL:        cfg.BaseURL,
		DefaultLocale:  cfg.DefaultLocale,
		AssetVersion:   cfg.AssetVersion,
		RobotsAllow:    cfg.RobotsAllow,
		PreviewSecret:  previewSecret,
		Content:        source,
		PreviewContent: preview,
		Capturer:       capturer,
		Experiments:    experimentEngine,
		Milestones:     store,
		Emitter:        emitter,
	})
	if err != nil {
		return fmt.Errorf("init site server: %w", err)
	}
	defer server.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return capturer.Run(gctx)
	})
	g.Go(func() error {
		return flagEngine.Run(gctx)
	})
	if fixtures != nil {
		g.Go(func() error {
			if err := fixtures.Watch(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch content fixtures: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		if err := server.ListenAndServe(gctx); err != nil {
			return fmt.Errorf("serve site: %w", err)
		}
		return nil
	})
	serveErr := g.Wait()

	drainCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := capturer.Close(drainCtx); err != nil {
		log.Printf("drain analytics queue: %v", err)
	}
	return serveErr
}
