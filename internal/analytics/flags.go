package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"log"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	platformerrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/platform/timeouts"
)

// ControlVariant is returned whenever a variant cannot be chosen: unknown or
// inactive flags, missing identity, or definitions that never loaded.
const ControlVariant = "control"

const (
	defaultRefreshInterval = 30 * time.Second
	refreshJitterFraction  = 0.2
	refreshAttempts        = 2
	refreshRetryDelay      = 500 * time.Millisecond
)

// FlagVariant is one rollout bucket of a multivariate flag.
type FlagVariant struct {
	Key               string  `json:"key"`
	RolloutPercentage float64 `json:"rollout_percentage"`
}

// FlagDefinition is one feature flag as served by the flags API.
type FlagDefinition struct {
	Key      string        `json:"key"`
	Active   bool          `json:"active"`
	Variants []FlagVariant `json:"variants"`
}

// FlagsConfig configures the flag engine.
type FlagsConfig struct {
	// Host is the flags API root, usually the same as the ingest host.
	Host string
	// APIKey authorizes definition fetches. Empty disables the engine;
	// every evaluation then returns the control variant.
	APIKey string
	// RefreshInterval paces definition refreshes. Default 30s, jittered.
	RefreshInterval time.Duration
	// OnReady runs once after the first successful fetch. The capture
	// client's MarkReady hooks in here.
	OnReady func()
	// HTTPClient overrides the instrumented default client.
	HTTPClient *http.Client
}

// Flags evaluates experiment variants from periodically refreshed flag
// definitions. Evaluation is deterministic: the same flag and distinct id
// always land in the same variant, across processes and restarts.
type Flags struct {
	host            string
	key             string
	http            *http.Client
	refreshInterval time.Duration
	onReady         func()

	mu   sync.RWMutex
	defs map[string]FlagDefinition

	loadedCh   chan struct{}
	loadedOnce sync.Once

	disabled bool
}

// NewFlags builds a flag engine. An empty API key yields a disabled engine
// that always answers with the control variant.
func NewFlags(cfg FlagsConfig) *Flags {
	f := &Flags{
		refreshInterval: cfg.RefreshInterval,
		onReady:         cfg.OnReady,
		defs:            map[string]FlagDefinition{},
		loadedCh:        make(chan struct{}),
	}
	if f.refreshInterval <= 0 {
		f.refreshInterval = defaultRefreshInterval
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		f.disabled = true
		log.Printf("feature flags disabled: no API key configured")
		return f
	}
	f.host = strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	f.key = cfg.APIKey
	f.http = cfg.HTTPClient
	if f.http == nil {
		f.http = &http.Client{
			Timeout:   timeouts.FlagsRequest,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return f
}

// Disabled reports whether the engine runs without credentials.
func (f *Flags) Disabled() bool {
	return f == nil || f.disabled
}

// Run refreshes definitions until ctx is cancelled. The first fetch happens
// immediately; later fetches are jittered around the refresh interval so
// restarts don't synchronize load on the flags API.
func (f *Flags) Run(ctx context.Context) error {
	if f.Disabled() {
		return nil
	}
	if err := f.Refresh(ctx); err != nil {
		log.Printf("initial flag refresh: %v", err)
	}
	for {
		timer := time.NewTimer(f.nextRefreshDelay())
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		if err := f.Refresh(ctx); err != nil {
			// Stale definitions beat none; keep what we have.
			log.Printf("flag refresh: %v", err)
		}
	}
}

func (f *Flags) nextRefreshDelay() time.Duration {
	jitter := 1 + refreshJitterFraction*(2*rand.Float64()-1)
	return time.Duration(float64(f.refreshInterval) * jitter)
}

// Refresh fetches definitions once, with a small bounded retry.
func (f *Flags) Refresh(ctx context.Context) error {
	if f.Disabled() {
		return nil
	}
	var defs []FlagDefinition
	err := retry.Do(
		func() error {
			fetched, err := f.fetchDefinitions(ctx)
			if err != nil {
				return err
			}
			defs = fetched
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(refreshAttempts),
		retry.Delay(refreshRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return err
	}

	byKey := make(map[string]FlagDefinition, len(defs))
	for _, def := range defs {
		byKey[def.Key] = def
	}
	f.mu.Lock()
	f.defs = byKey
	f.mu.Unlock()

	f.loadedOnce.Do(func() {
		close(f.loadedCh)
		if f.onReady != nil {
			f.onReady()
		}
	})
	return nil
}

func (f *Flags) fetchDefinitions(ctx context.Context) ([]FlagDefinition, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeouts.FlagsRequest)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, f.host+"/flags", nil)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeFlagUpstreamFailed, "build flags request", err)
	}
	req.Header.Set("X-API-Key", f.key)
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeFlagUpstreamFailed, "flags request", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, platformerrors.New(platformerrors.CodeFlagUpstreamFailed, "flags API returned "+resp.Status)
	}

	var payload struct {
		Flags []FlagDefinition `json:"flags"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeFlagDecodeFailed, "decode flags response", err)
	}
	return payload.Flags, nil
}

// Loaded reports whether at least one fetch has succeeded.
func (f *Flags) Loaded() bool {
	if f.Disabled() {
		return false
	}
	select {
	case <-f.loadedCh:
		return true
	default:
		return false
	}
}

// VariantFor picks the variant for a flag and distinct id. It degrades to
// the control variant instead of failing.
func (f *Flags) VariantFor(flagKey, distinctID string) string {
	if f.Disabled() || !f.Loaded() {
		return ControlVariant
	}
	if strings.TrimSpace(flagKey) == "" || strings.TrimSpace(distinctID) == "" {
		return ControlVariant
	}

	f.mu.RLock()
	def, ok := f.defs[flagKey]
	f.mu.RUnlock()
	if !ok || !def.Active || len(def.Variants) == 0 {
		return ControlVariant
	}

	bucket := bucketFor(flagKey, distinctID)
	cumulative := 0.0
	for _, variant := range def.Variants {
		cumulative += variant.RolloutPercentage
		if bucket < cumulative {
			return variant.Key
		}
	}
	return ControlVariant
}

// VariantForWithin evaluates like VariantFor but waits up to timeout for the
// first definitions load. When the load doesn't arrive in time the control
// variant is returned.
func (f *Flags) VariantForWithin(ctx context.Context, timeout time.Duration, flagKey, distinctID string) string {
	if f.Disabled() {
		return ControlVariant
	}
	if f.Loaded() {
		return f.VariantFor(flagKey, distinctID)
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ControlVariant
	case <-timer.C:
		return ControlVariant
	case <-f.loadedCh:
		return f.VariantFor(flagKey, distinctID)
	}
}

// bucketFor hashes the flag and identity into [0, 100). SHA-256 keeps the
// assignment stable across processes and restarts.
func bucketFor(flagKey, distinctID string) float64 {
	sum := sha256.Sum256([]byte(flagKey + ":" + distinctID))
	n := binary.BigEndian.Uint64(sum[:8])
	return float64(n%10000) / 100
}
