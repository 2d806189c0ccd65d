// Package sqlite provides SQLite-backed persistence for the site service.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lumastack/lumastack.com/internal/content"
	sqlitemigrate "github.com/lumastack/lumastack.com/internal/platform/storage/sqlitemigrate"
	"github.com/lumastack/lumastack.com/internal/services/site/storage"
	"github.com/lumastack/lumastack.com/internal/services/site/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists the content cache, analytics spool, milestone dedupe, and
// telemetry events in a single SQLite file.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a site SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetContentCacheEntry loads a cached content payload and metadata by key.
func (s *Store) GetContentCacheEntry(ctx context.Context, cacheKey string) (content.CacheEntry, bool, error) {
	if s == nil || s.sqlDB == nil {
		return content.CacheEntry{}, false, fmt.Errorf("storage is not configured")
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return content.CacheEntry{}, false, fmt.Errorf("cache key is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT cache_key, kind, locale, payload_json, refreshed_at, expires_at
		 FROM content_cache
		 WHERE cache_key = ?`,
		cacheKey,
	)

	var entry content.CacheEntry
	var kind string
	var refreshedAt int64
	var expiresAt int64
	if err := row.Scan(
		&entry.CacheKey,
		&kind,
		&entry.Locale,
		&entry.PayloadBytes,
		&refreshedAt,
		&expiresAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return content.CacheEntry{}, false, nil
		}
		return content.CacheEntry{}, false, fmt.Errorf("get content cache entry: %w", err)
	}

	entry.Kind = content.Kind(kind)
	entry.RefreshedAt = unixMillisToTime(refreshedAt)
	entry.ExpiresAt = unixMillisToTime(expiresAt)
	return entry, true, nil
}

// PutContentCacheEntry upserts a cached content payload and metadata by key.
func (s *Store) PutContentCacheEntry(ctx context.Context, entry content.CacheEntry) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	entry.CacheKey = strings.TrimSpace(entry.CacheKey)
	if entry.CacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	if entry.Kind == "" {
		return fmt.Errorf("cache kind is required")
	}
	if len(entry.PayloadBytes) == 0 {
		return fmt.Errorf("cache payload is required")
	}
	if entry.RefreshedAt.IsZero() {
		entry.RefreshedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO content_cache (cache_key, kind, locale, payload_json, refreshed_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		    kind = excluded.kind,
		    locale = excluded.locale,
		    payload_json = excluded.payload_json,
		    refreshed_at = excluded.refreshed_at,
		    expires_at = excluded.expires_at`,
		entry.CacheKey,
		string(entry.Kind),
		strings.TrimSpace(entry.Locale),
		entry.PayloadBytes,
		timeToUnixMillis(entry.RefreshedAt),
		timeToUnixMillis(entry.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("put content cache entry: %w", err)
	}
	return nil
}

// PurgeContentCache drops every cached content payload.
func (s *Store) PurgeContentCache(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM content_cache`); err != nil {
		return fmt.Errorf("purge content cache: %w", err)
	}
	return nil
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ storage.Store = (*Store)(nil)
