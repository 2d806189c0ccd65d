package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/lumastack/lumastack.com/internal/content"
	"github.com/lumastack/lumastack.com/internal/telemetry"
	_ "modernc.org/sqlite"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenRunsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	for _, table := range []string{"content_cache", "event_spool", "engagement_milestones", "telemetry_events", "schema_migrations"} {
		assertTableExists(t, sqlDB, table)
	}
}

func TestContentCacheRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	refreshedAt := time.Now().UTC().Truncate(time.Millisecond)
	entry := content.CacheEntry{
		CacheKey:     "page:en-US:home",
		Kind:         content.KindPage,
		Locale:       "en-US",
		PayloadBytes: []byte(`{"id":"home"}`),
		RefreshedAt:  refreshedAt,
		ExpiresAt:    refreshedAt.Add(time.Minute),
	}
	if err := store.PutContentCacheEntry(ctx, entry); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, found, err := store.GetContentCacheEntry(ctx, "page:en-US:home")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected cache entry")
	}
	if got.Kind != content.KindPage {
		t.Fatalf("kind = %q, want %q", got.Kind, content.KindPage)
	}
	if got.Locale != "en-US" {
		t.Fatalf("locale = %q, want %q", got.Locale, "en-US")
	}
	if string(got.PayloadBytes) != `{"id":"home"}` {
		t.Fatalf("payload = %q", got.PayloadBytes)
	}
	if !got.RefreshedAt.Equal(refreshedAt) {
		t.Fatalf("refreshedAt = %s, want %s", got.RefreshedAt, refreshedAt)
	}
	if !got.ExpiresAt.Equal(refreshedAt.Add(time.Minute)) {
		t.Fatalf("expiresAt = %s, want %s", got.ExpiresAt, refreshedAt.Add(time.Minute))
	}

	entry.PayloadBytes = []byte(`{"id":"home","v":2}`)
	if err := store.PutContentCacheEntry(ctx, entry); err != nil {
		t.Fatalf("put update: %v", err)
	}
	got, _, err = store.GetContentCacheEntry(ctx, "page:en-US:home")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if string(got.PayloadBytes) != `{"id":"home","v":2}` {
		t.Fatalf("payload after update = %q", got.PayloadBytes)
	}
}

func TestContentCacheMissReturnsNotFound(t *testing.T) {
	store := openTestStore(t)

	_, found, err := store.GetContentCacheEntry(context.Background(), "page:en-US:missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected cache miss")
	}
}

func TestPurgeContentCacheRemovesEverything(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"page:en-US:home", "page:de-DE:home"} {
		entry := content.CacheEntry{
			CacheKey:     key,
			Kind:         content.KindPage,
			Locale:       "en-US",
			PayloadBytes: []byte(`{}`),
			RefreshedAt:  time.Now().UTC(),
			ExpiresAt:    time.Now().UTC().Add(time.Minute),
		}
		if err := store.PutContentCacheEntry(ctx, entry); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	if err := store.PurgeContentCache(ctx); err != nil {
		t.Fatalf("purge: %v", err)
	}
	for _, key := range []string{"page:en-US:home", "page:de-DE:home"} {
		if _, found, err := store.GetContentCacheEntry(ctx, key); err != nil || found {
			t.Fatalf("entry %s after purge: found=%v err=%v", key, found, err)
		}
	}
}

func TestEventSpoolLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	queuedAt := time.Now().UTC().Truncate(time.Millisecond)
	for _, payload := range []string{`[{"event":"a"}]`, `[{"event":"b"}]`, `[{"event":"c"}]`} {
		if err := store.AppendEventBatch(ctx, []byte(payload), queuedAt); err != nil {
			t.Fatalf("append %s: %v", payload, err)
		}
	}

	batches, err := store.ListEventBatches(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(batches))
	}
	if string(batches[0].Payload) != `[{"event":"a"}]` {
		t.Fatalf("oldest payload = %q, want the first appended batch", batches[0].Payload)
	}
	if !batches[0].QueuedAt.Equal(queuedAt) {
		t.Fatalf("queuedAt = %s, want %s", batches[0].QueuedAt, queuedAt)
	}

	if err := store.BumpEventBatchAttempts(ctx, batches[0].ID); err != nil {
		t.Fatalf("bump: %v", err)
	}
	bumped, err := store.ListEventBatches(ctx, 1)
	if err != nil {
		t.Fatalf("list after bump: %v", err)
	}
	if bumped[0].Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", bumped[0].Attempts)
	}

	if err := store.DeleteEventBatch(ctx, batches[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	remaining, err := store.ListEventBatches(ctx, 10)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("remaining = %d, want 2", len(remaining))
	}
	if string(remaining[0].Payload) != `[{"event":"b"}]` {
		t.Fatalf("new oldest payload = %q", remaining[0].Payload)
	}
}

func TestMarkEngagementMilestoneDedupes(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	recorded, err := store.MarkEngagementMilestone(ctx, "sess-1", "/pricing", "scroll_50")
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !recorded {
		t.Fatal("expected first milestone to record")
	}

	recorded, err = store.MarkEngagementMilestone(ctx, "sess-1", "/pricing", "scroll_50")
	if err != nil {
		t.Fatalf("mark repeat: %v", err)
	}
	if recorded {
		t.Fatal("expected repeated milestone to dedupe")
	}

	recorded, err = store.MarkEngagementMilestone(ctx, "sess-1", "/features", "scroll_50")
	if err != nil {
		t.Fatalf("mark other page: %v", err)
	}
	if !recorded {
		t.Fatal("expected a different page to record")
	}

	recorded, err = store.MarkEngagementMilestone(ctx, "sess-2", "/pricing", "scroll_50")
	if err != nil {
		t.Fatalf("mark other session: %v", err)
	}
	if !recorded {
		t.Fatal("expected a different session to record")
	}
}

func TestMarkEngagementMilestoneValidatesInput(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.MarkEngagementMilestone(ctx, "", "/pricing", "scroll_50"); err == nil {
		t.Fatal("expected session id error")
	}
	if _, err := store.MarkEngagementMilestone(ctx, "sess-1", "", "scroll_50"); err == nil {
		t.Fatal("expected page path error")
	}
	if _, err := store.MarkEngagementMilestone(ctx, "sess-1", "/pricing", ""); err == nil {
		t.Fatal("expected milestone error")
	}
}

func TestAppendTelemetryEventPersists(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	evt := telemetry.Event{
		Timestamp:  time.Now().UTC(),
		EventName:  "content.cache.stale_served",
		Severity:   telemetry.SeverityWarn,
		Component:  "content",
		Locale:     "en-US",
		Path:       "/pricing",
		Attributes: map[string]any{"cache_key": "page:en-US:pricing"},
	}
	if err := store.AppendTelemetryEvent(ctx, evt); err != nil {
		t.Fatalf("append: %v", err)
	}

	var count int64
	row := store.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM telemetry_events WHERE event_name = ?`, "content.cache.stale_served")
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}

	var attrs []byte
	row = store.sqlDB.QueryRowContext(ctx, `SELECT attributes_json FROM telemetry_events LIMIT 1`)
	if err := row.Scan(&attrs); err != nil {
		t.Fatalf("attributes: %v", err)
	}
	if string(attrs) != `{"cache_key":"page:en-US:pricing"}` {
		t.Fatalf("attributes = %q", attrs)
	}
}

func TestAppendTelemetryEventValidatesInput(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.AppendTelemetryEvent(ctx, telemetry.Event{Severity: telemetry.SeverityInfo}); err == nil {
		t.Fatal("expected event name error")
	}
	if err := store.AppendTelemetryEvent(ctx, telemetry.Event{EventName: "x"}); err == nil {
		t.Fatal("expected severity error")
	}
}

func assertTableExists(t *testing.T, sqlDB *sql.DB, tableName string) {
	t.Helper()

	var name string
	err := sqlDB.QueryRowContext(
		context.Background(),
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`,
		tableName,
	).Scan(&name)
	if err != nil {
		t.Fatalf("table %s missing: %v", tableName, err)
	}
}
