package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	platformerrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/platform/timeouts"
)

const (
	defaultQueueCapacity = 1024
	defaultBatchSize     = 50
	defaultFlushInterval = 5 * time.Second
	defaultReadyGrace    = 10 * time.Second
	spoolReplayLimit     = 16
)

// ErrClosed reports a capture attempted after Close.
var ErrClosed = errors.New("analytics client is closed")

// Config configures the capture client.
type Config struct {
	// Host is the ingest API root, e.g. https://ingest.lumastack.dev.
	Host string
	// APIKey authorizes capture. Empty disables the client entirely.
	APIKey string
	// QueueCapacity bounds the in-memory event queue. Default 1024.
	QueueCapacity int
	// BatchSize caps events per delivery. Default 50.
	BatchSize int
	// FlushInterval paces deliveries. Default 5s.
	FlushInterval time.Duration
	// ReadyGrace bounds how long delivery waits for readiness. Default 10s.
	ReadyGrace time.Duration
	// Spool persists undeliverable batches across restarts. Optional.
	Spool SpoolStore
	// HTTPClient overrides the instrumented default client.
	HTTPClient *http.Client
}

// Client captures events into a bounded queue and delivers them in batches.
//
// Delivery waits for an explicit readiness signal, normally raised by the
// flag engine after its first successful definitions fetch, or for the
// ready-grace timeout, whichever comes first. Events captured before then
// queue up and are not lost unless the queue overflows, in which case the
// oldest events are dropped and counted.
type Client struct {
	host  string
	key   string
	http  *http.Client
	spool SpoolStore

	queueCapacity int
	batchSize     int
	flushInterval time.Duration
	readyGrace    time.Duration

	mu      sync.Mutex
	queue   []Event
	dropped uint64
	closed  bool

	flushMu sync.Mutex

	ready     chan struct{}
	readyOnce sync.Once
	wake      chan struct{}

	disabled bool
	clock    func() time.Time
}

// New builds a capture client. An empty API key yields a disabled client:
// every method is a no-op and one startup line records the fact.
func New(cfg Config) (*Client, error) {
	c := &Client{
		queueCapacity: cfg.QueueCapacity,
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		readyGrace:    cfg.ReadyGrace,
		spool:         cfg.Spool,
		ready:         make(chan struct{}),
		wake:          make(chan struct{}, 1),
		clock:         time.Now,
	}
	if c.queueCapacity <= 0 {
		c.queueCapacity = defaultQueueCapacity
	}
	if c.batchSize <= 0 {
		c.batchSize = defaultBatchSize
	}
	if c.flushInterval <= 0 {
		c.flushInterval = defaultFlushInterval
	}
	if c.readyGrace <= 0 {
		c.readyGrace = defaultReadyGrace
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		c.disabled = true
		log.Printf("analytics disabled: no ingest API key configured")
		return c, nil
	}

	host := strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	if host == "" {
		return nil, platformerrors.New(platformerrors.CodeAnalyticsKeyUnconfigured, "ingest host is required when an API key is set")
	}
	c.host = host
	c.key = cfg.APIKey
	c.http = cfg.HTTPClient
	if c.http == nil {
		c.http = &http.Client{
			Timeout:   timeouts.AnalyticsRequest,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return c, nil
}

// Disabled reports whether capture is turned off for lack of credentials.
func (c *Client) Disabled() bool {
	return c == nil || c.disabled
}

// MarkReady signals that delivery may begin. Safe to call more than once.
func (c *Client) MarkReady() {
	if c == nil {
		return
	}
	c.readyOnce.Do(func() { close(c.ready) })
}

// Ready exposes the readiness signal, mainly for tests.
func (c *Client) Ready() <-chan struct{} {
	return c.ready
}

// Dropped reports how many events were discarded to queue overflow.
func (c *Client) Dropped() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Capture validates and enqueues one event. It never blocks on delivery.
func (c *Client) Capture(ctx context.Context, evt Event) error {
	if c.Disabled() {
		return nil
	}
	normalized, err := evt.normalize(c.clock().UTC())
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if len(c.queue) >= c.queueCapacity {
		drop := len(c.queue) - c.queueCapacity + 1
		c.queue = append(c.queue[:0], c.queue[drop:]...)
		c.dropped += uint64(drop)
		log.Printf("analytics queue full, dropped %d oldest events (total dropped %d)", drop, c.dropped)
	}
	c.queue = append(c.queue, normalized)
	full := len(c.queue) >= c.batchSize
	c.mu.Unlock()

	if full {
		select {
		case c.wake <- struct{}{}:
		default:
		}
	}
	return nil
}

// Run delivers batches until ctx is cancelled. Delivery starts after the
// readiness signal or after the ready grace elapses.
func (c *Client) Run(ctx context.Context) error {
	if c.Disabled() {
		return nil
	}

	grace := time.NewTimer(c.readyGrace)
	defer grace.Stop()
	select {
	case <-ctx.Done():
		return nil
	case <-c.ready:
	case <-grace.C:
		log.Printf("analytics ready grace elapsed, starting delivery")
		c.MarkReady()
	}

	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.flush(ctx)
		case <-c.wake:
			c.flush(ctx)
		}
	}
}

// Close stops capture and drains what it can within ctx's deadline.
func (c *Client) Close(ctx context.Context) error {
	if c.Disabled() {
		return nil
	}
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.flush(ctx)
	return nil
}

// flush replays spooled batches, then drains the queue. One flush runs at a
// time; delivery failures park batches in the spool.
func (c *Client) flush(ctx context.Context) {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	c.replaySpool(ctx)

	for {
		batch := c.takeBatch()
		if len(batch) == 0 {
			return
		}
		payload, err := json.Marshal(toWire(batch))
		if err != nil {
			log.Printf("analytics encode batch: %v", err)
			return
		}
		if err := c.deliver(ctx, payload); err != nil {
			c.parkBatch(ctx, batch, payload, err)
			return
		}
	}
}

func (c *Client) parkBatch(ctx context.Context, batch []Event, payload []byte, cause error) {
	if c.spool == nil {
		log.Printf("analytics delivery failed, requeueing %d events: %v", len(batch), cause)
		c.requeueFront(batch)
		return
	}
	if err := c.spool.AppendEventBatch(ctx, payload, c.clock().UTC()); err != nil {
		log.Printf("analytics spool append failed, requeueing %d events: %v", len(batch), err)
		c.requeueFront(batch)
		return
	}
	log.Printf("analytics delivery failed, spooled %d events: %v", len(batch), cause)
}

func (c *Client) replaySpool(ctx context.Context) {
	if c.spool == nil {
		return
	}
	batches, err := c.spool.ListEventBatches(ctx, spoolReplayLimit)
	if err != nil {
		log.Printf("analytics spool list: %v", err)
		return
	}
	for _, batch := range batches {
		if err := c.deliver(ctx, batch.Payload); err != nil {
			if batch.Attempts+1 >= maxSpoolAttempts {
				log.Printf("analytics dropping spooled batch %d after %d attempts: %v", batch.ID, batch.Attempts+1, err)
				if delErr := c.spool.DeleteEventBatch(ctx, batch.ID); delErr != nil {
					log.Printf("analytics spool delete %d: %v", batch.ID, delErr)
				}
				return
			}
			if bumpErr := c.spool.BumpEventBatchAttempts(ctx, batch.ID); bumpErr != nil {
				log.Printf("analytics spool bump %d: %v", batch.ID, bumpErr)
			}
			return
		}
		if err := c.spool.DeleteEventBatch(ctx, batch.ID); err != nil {
			log.Printf("analytics spool delete %d: %v", batch.ID, err)
			return
		}
	}
}

func (c *Client) takeBatch() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return nil
	}
	n := c.batchSize
	if n > len(c.queue) {
		n = len(c.queue)
	}
	batch := make([]Event, n)
	copy(batch, c.queue[:n])
	rest := make([]Event, len(c.queue)-n)
	copy(rest, c.queue[n:])
	c.queue = rest
	return batch
}

func (c *Client) requeueFront(batch []Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	combined := make([]Event, 0, len(batch)+len(c.queue))
	combined = append(combined, batch...)
	combined = append(combined, c.queue...)
	if overflow := len(combined) - c.queueCapacity; overflow > 0 {
		combined = combined[overflow:]
		c.dropped += uint64(overflow)
	}
	c.queue = combined
}

func (c *Client) deliver(ctx context.Context, payload []byte) error {
	body, err := json.Marshal(struct {
		APIKey string          `json:"api_key"`
		Batch  json.RawMessage `json:"batch"`
	}{APIKey: c.key, Batch: payload})
	if err != nil {
		return fmt.Errorf("encode batch envelope: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeouts.AnalyticsRequest)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.host+"/batch", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return platformerrors.Wrap(platformerrors.CodeAnalyticsDeliveryFailed, "deliver batch", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return platformerrors.New(platformerrors.CodeAnalyticsDeliveryFailed, "ingest API returned "+resp.Status)
	}
	return nil
}
