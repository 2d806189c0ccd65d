package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	platformerrors "github.com/lumastack/lumastack.com/internal/platform/errors"
)

type memSpool struct {
	mu      sync.Mutex
	nextID  int64
	batches []SpooledBatch
}

func (s *memSpool) AppendEventBatch(ctx context.Context, payload []byte, queuedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.batches = append(s.batches, SpooledBatch{ID: s.nextID, Payload: payload, QueuedAt: queuedAt})
	return nil
}

func (s *memSpool) ListEventBatches(ctx context.Context, limit int) ([]SpooledBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := limit
	if n > len(s.batches) {
		n = len(s.batches)
	}
	out := make([]SpooledBatch, n)
	copy(out, s.batches[:n])
	return out, nil
}

func (s *memSpool) BumpEventBatchAttempts(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.batches {
		if s.batches[i].ID == id {
			s.batches[i].Attempts++
			return nil
		}
	}
	return errors.New("batch not found")
}

func (s *memSpool) DeleteEventBatch(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.batches {
		if s.batches[i].ID == id {
			s.batches = append(s.batches[:i], s.batches[i+1:]...)
			return nil
		}
	}
	return errors.New("batch not found")
}

func (s *memSpool) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

// ingestRecorder is a fake ingest API collecting delivered batches.
type ingestRecorder struct {
	mu       sync.Mutex
	failures int
	requests [][]wireEvent
	notify   chan struct{}
}

func newIngestRecorder() *ingestRecorder {
	return &ingestRecorder{notify: make(chan struct{}, 64)}
}

func (rec *ingestRecorder) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		fail := rec.failures > 0
		if fail {
			rec.failures--
		}
		rec.mu.Unlock()
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}

		var payload struct {
			APIKey string      `json:"api_key"`
			Batch  []wireEvent `json:"batch"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec.mu.Lock()
		rec.requests = append(rec.requests, payload.Batch)
		rec.mu.Unlock()
		select {
		case rec.notify <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
	})
}

func (rec *ingestRecorder) delivered() []wireEvent {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	var all []wireEvent
	for _, batch := range rec.requests {
		all = append(all, batch...)
	}
	return all
}

func (rec *ingestRecorder) requestCount() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.requests)
}

func newTestClient(t *testing.T, rec *ingestRecorder, mutate func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(rec.handler())
	t.Cleanup(srv.Close)

	cfg := Config{
		Host:       srv.URL,
		APIKey:     "ingest-key",
		HTTPClient: srv.Client(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientDisabledWithoutKey(t *testing.T) {
	t.Parallel()

	client, err := New(Config{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if !client.Disabled() {
		t.Fatal("expected disabled client")
	}
	if err := client.Capture(context.Background(), Event{Name: "page_view"}); err != nil {
		t.Fatalf("capture on disabled client: %v", err)
	}
	if err := client.Run(context.Background()); err != nil {
		t.Fatalf("run on disabled client: %v", err)
	}
	if err := client.Close(context.Background()); err != nil {
		t.Fatalf("close on disabled client: %v", err)
	}
}

func TestClientRequiresHostWhenKeySet(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{APIKey: "k"}); err == nil {
		t.Fatal("expected host error")
	}
}

func TestCaptureValidatesName(t *testing.T) {
	t.Parallel()

	rec := newIngestRecorder()
	client := newTestClient(t, rec, nil)

	err := client.Capture(context.Background(), Event{})
	if got := platformerrors.CodeOf(err); got != platformerrors.CodeAnalyticsEventNameEmpty {
		t.Fatalf("code = %q, want %q", got, platformerrors.CodeAnalyticsEventNameEmpty)
	}
}

func TestFlushDeliversWithDefaults(t *testing.T) {
	t.Parallel()

	rec := newIngestRecorder()
	client := newTestClient(t, rec, nil)

	if err := client.Capture(context.Background(), Event{Name: "page_view"}); err != nil {
		t.Fatalf("capture: %v", err)
	}
	client.flush(context.Background())

	delivered := rec.delivered()
	if len(delivered) != 1 {
		t.Fatalf("delivered = %d events, want 1", len(delivered))
	}
	if delivered[0].DistinctID != AnonymousDistinctID {
		t.Fatalf("distinct id = %q, want %q", delivered[0].DistinctID, AnonymousDistinctID)
	}
	if delivered[0].Timestamp.IsZero() {
		t.Fatal("expected timestamp to be filled")
	}
}

func TestQueueDropsOldestBeyondCapacity(t *testing.T) {
	t.Parallel()

	rec := newIngestRecorder()
	client := newTestClient(t, rec, func(cfg *Config) { cfg.QueueCapacity = 3 })

	for _, name := range []string{"e1", "e2", "e3", "e4", "e5"} {
		if err := client.Capture(context.Background(), Event{Name: name}); err != nil {
			t.Fatalf("capture %s: %v", name, err)
		}
	}
	client.flush(context.Background())

	delivered := rec.delivered()
	if len(delivered) != 3 {
		t.Fatalf("delivered = %d events, want 3", len(delivered))
	}
	for i, want := range []string{"e3", "e4", "e5"} {
		if delivered[i].Event != want {
			t.Fatalf("event[%d] = %q, want %q", i, delivered[i].Event, want)
		}
	}
	if got := client.Dropped(); got != 2 {
		t.Fatalf("dropped = %d, want 2", got)
	}
}

func TestFlushSpoolsOnDeliveryFailure(t *testing.T) {
	t.Parallel()

	rec := newIngestRecorder()
	rec.failures = 1
	spool := &memSpool{}
	client := newTestClient(t, rec, func(cfg *Config) { cfg.Spool = spool })

	if err := client.Capture(context.Background(), Event{Name: "page_view"}); err != nil {
		t.Fatalf("capture: %v", err)
	}
	client.flush(context.Background())

	if got := spool.len(); got != 1 {
		t.Fatalf("spooled batches = %d, want 1", got)
	}
	if got := rec.requestCount(); got != 0 {
		t.Fatalf("successful requests = %d, want 0", got)
	}

	// The upstream recovers; the next flush replays the spooled batch.
	client.flush(context.Background())
	if got := spool.len(); got != 0 {
		t.Fatalf("spooled batches after replay = %d, want 0", got)
	}
	delivered := rec.delivered()
	if len(delivered) != 1 || delivered[0].Event != "page_view" {
		t.Fatalf("delivered = %+v, want the spooled page_view", delivered)
	}
}

func TestReplayDropsBatchAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	rec := newIngestRecorder()
	rec.failures = 1000
	spool := &memSpool{}
	client := newTestClient(t, rec, func(cfg *Config) { cfg.Spool = spool })

	payload, err := json.Marshal(toWire([]Event{{Name: "stuck", DistinctID: "v1", Timestamp: time.Now()}}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := spool.AppendEventBatch(context.Background(), payload, time.Now()); err != nil {
		t.Fatalf("append: %v", err)
	}
	spool.batches[0].Attempts = maxSpoolAttempts - 1

	client.flush(context.Background())
	if got := spool.len(); got != 0 {
		t.Fatalf("spooled batches = %d, want 0 after drop", got)
	}
}

func TestRequeueWhenNoSpool(t *testing.T) {
	t.Parallel()

	rec := newIngestRecorder()
	rec.failures = 1
	client := newTestClient(t, rec, nil)

	if err := client.Capture(context.Background(), Event{Name: "page_view"}); err != nil {
		t.Fatalf("capture: %v", err)
	}
	client.flush(context.Background())
	if got := rec.requestCount(); got != 0 {
		t.Fatalf("successful requests = %d, want 0", got)
	}

	client.flush(context.Background())
	if delivered := rec.delivered(); len(delivered) != 1 {
		t.Fatalf("delivered = %d events, want 1 after requeue", len(delivered))
	}
}

func TestRunHoldsDeliveryUntilReady(t *testing.T) {
	t.Parallel()

	rec := newIngestRecorder()
	client := newTestClient(t, rec, func(cfg *Config) {
		cfg.FlushInterval = 20 * time.Millisecond
		cfg.ReadyGrace = time.Minute
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	if err := client.Capture(context.Background(), Event{Name: "early"}); err != nil {
		t.Fatalf("capture: %v", err)
	}

	select {
	case <-rec.notify:
		t.Fatal("delivery happened before readiness")
	case <-time.After(150 * time.Millisecond):
	}

	client.MarkReady()
	select {
	case <-rec.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery after readiness")
	}

	delivered := rec.delivered()
	if len(delivered) != 1 || delivered[0].Event != "early" {
		t.Fatalf("delivered = %+v, want the early event", delivered)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunStartsAfterReadyGrace(t *testing.T) {
	t.Parallel()

	rec := newIngestRecorder()
	client := newTestClient(t, rec, func(cfg *Config) {
		cfg.FlushInterval = 20 * time.Millisecond
		cfg.ReadyGrace = 50 * time.Millisecond
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	if err := client.Capture(context.Background(), Event{Name: "waited"}); err != nil {
		t.Fatalf("capture: %v", err)
	}

	select {
	case <-rec.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery after grace elapsed")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestCloseDrainsAndRejectsFurtherCapture(t *testing.T) {
	t.Parallel()

	rec := newIngestRecorder()
	client := newTestClient(t, rec, nil)

	for _, name := range []string{"a", "b", "c"} {
		if err := client.Capture(context.Background(), Event{Name: name}); err != nil {
			t.Fatalf("capture %s: %v", name, err)
		}
	}
	if err := client.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := len(rec.delivered()); got != 3 {
		t.Fatalf("delivered = %d events, want 3", got)
	}

	if err := client.Capture(context.Background(), Event{Name: "late"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("capture after close = %v, want ErrClosed", err)
	}
}

func TestBatchSizeSplitsDeliveries(t *testing.T) {
	t.Parallel()

	rec := newIngestRecorder()
	client := newTestClient(t, rec, func(cfg *Config) { cfg.BatchSize = 2 })

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		if err := client.Capture(context.Background(), Event{Name: name}); err != nil {
			t.Fatalf("capture %s: %v", name, err)
		}
	}
	client.flush(context.Background())

	if got := rec.requestCount(); got != 3 {
		t.Fatalf("requests = %d, want 3 (2+2+1)", got)
	}
	if got := len(rec.delivered()); got != 5 {
		t.Fatalf("delivered = %d events, want 5", got)
	}
}
