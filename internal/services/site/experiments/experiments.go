// Package experiments combines feature-flag evaluation with CMS variant
// content so pages can render A/B arms without talking to the analytics
// layer directly.
package experiments

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/lumastack/lumastack.com/internal/analytics"
	"github.com/lumastack/lumastack.com/internal/content"
)

// DecisionTimeout bounds how long a render waits for the first flag load
// before falling back to the control variant.
const DecisionTimeout = 200 * time.Millisecond

// ExposureEvent is the analytics event captured once per visitor and flag.
const ExposureEvent = "experiment_viewed"

// maxSeenExposures bounds the in-process exposure dedupe set.
const maxSeenExposures = 4096

// VariantSource evaluates feature flags into variant keys.
type VariantSource interface {
	VariantForWithin(ctx context.Context, timeout time.Duration, flagKey, distinctID string) string
	Disabled() bool
}

// ContentLister fetches the content list holding an experiment's variants.
type ContentLister interface {
	GetList(ctx context.Context, locale, ref string, q content.Query) (content.List, error)
}

// Capturer records exposure events.
type Capturer interface {
	Capture(ctx context.Context, event analytics.Event) error
	Disabled() bool
}

// Config assembles an Engine.
type Config struct {
	Flags   VariantSource
	Content ContentLister
	Capture Capturer
	Logger  *log.Logger

	// DecisionTimeout overrides the default variant decision bound.
	DecisionTimeout time.Duration
}

// Engine picks variants, resolves their CMS content, and records exposures.
type Engine struct {
	flags           VariantSource
	content         ContentLister
	capture         Capturer
	logger          *log.Logger
	decisionTimeout time.Duration

	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

// NewEngine returns an engine wired to the given flag source, content
// lister, and capturer. Any of them may be nil; the engine degrades to
// control variants and skipped captures.
func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	timeout := cfg.DecisionTimeout
	if timeout <= 0 {
		timeout = DecisionTimeout
	}
	return &Engine{
		flags:           cfg.Flags,
		content:         cfg.Content,
		capture:         cfg.Capture,
		logger:          logger,
		decisionTimeout: timeout,
		seen:            make(map[string]struct{}),
	}
}

// ChooseVariant evaluates flagKey for distinctID, waiting at most the
// decision timeout for flag definitions to load.
func (e *Engine) ChooseVariant(ctx context.Context, flagKey, distinctID string) string {
	if e == nil || e.flags == nil {
		return analytics.ControlVariant
	}
	return e.flags.VariantForWithin(ctx, e.decisionTimeout, flagKey, distinctID)
}

// variantFields is the schema shape shared by experiment content items.
type variantFields struct {
	Variant string `json:"variant"`
}

// VariantContent returns the content item whose variant field matches
// variant. A fetch failure or missing variant logs a warning and returns
// false so callers fall back to default content.
func (e *Engine) VariantContent(ctx context.Context, locale, listRef, variant string) (content.Item, bool) {
	if e == nil || e.content == nil {
		return content.Item{}, false
	}
	variant = strings.TrimSpace(variant)
	if variant == "" || listRef == "" {
		return content.Item{}, false
	}
	list, err := e.content.GetList(ctx, locale, listRef, content.Query{})
	if err != nil {
		e.logger.Printf("experiment variant fetch failed list=%s variant=%s err=%v", listRef, variant, err)
		return content.Item{}, false
	}
	for _, item := range list.Items {
		var fields variantFields
		if err := content.DecodeFields(item, &fields); err != nil {
			e.logger.Printf("experiment variant decode failed item=%s err=%v", item.ID, err)
			continue
		}
		if strings.EqualFold(strings.TrimSpace(fields.Variant), variant) {
			return item, true
		}
	}
	e.logger.Printf("experiment variant missing list=%s variant=%s", listRef, variant)
	return content.Item{}, false
}

// RecordExposure captures one exposure event per visitor and flag. Repeat
// sightings within the process are dropped; the dedupe set is bounded and
// evicts oldest entries first.
func (e *Engine) RecordExposure(ctx context.Context, distinctID, flagKey, variant string, properties map[string]any) {
	if e == nil || e.capture == nil || e.capture.Disabled() {
		return
	}
	distinctID = strings.TrimSpace(distinctID)
	flagKey = strings.TrimSpace(flagKey)
	if distinctID == "" || flagKey == "" {
		return
	}
	if !e.markSeen(distinctID + ":" + flagKey) {
		return
	}

	props := make(map[string]any, len(properties)+2)
	for k, v := range properties {
		props[k] = v
	}
	props[analytics.PropExperiment] = flagKey
	props[analytics.PropVariant] = variant

	if err := e.capture.Capture(ctx, analytics.Event{
		Name:       ExposureEvent,
		DistinctID: distinctID,
		Properties: props,
	}); err != nil {
		e.logger.Printf("experiment exposure capture failed flag=%s err=%v", flagKey, err)
	}
}

// markSeen records key and reports whether it was new.
func (e *Engine) markSeen(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.seen[key]; ok {
		return false
	}
	for len(e.order) >= maxSeenExposures {
		oldest := e.order[0]
		e.order = e.order[1:]
		delete(e.seen, oldest)
	}
	e.seen[key] = struct{}{}
	e.order = append(e.order, key)
	return true
}
