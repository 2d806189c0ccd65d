package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	platformerrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/telemetry"
)

// Default freshness windows per content kind. Sitemaps and pages change on
// every publish, so they stay fresher than individual items and lists.
const (
	sitemapTTL = 60 * time.Second
	pageTTL    = 60 * time.Second
	itemTTL    = 300 * time.Second
	listTTL    = 300 * time.Second
)

// CacheEntry stores one cached content payload and freshness metadata.
//
// Cache data is always derived and can be discarded and refetched from the
// content API.
type CacheEntry struct {
	CacheKey     string
	Kind         Kind
	Locale       string
	PayloadBytes []byte
	RefreshedAt  time.Time
	ExpiresAt    time.Time
}

// CacheStore is the persistence contract for the content cache.
type CacheStore interface {
	GetContentCacheEntry(ctx context.Context, cacheKey string) (CacheEntry, bool, error)
	PutContentCacheEntry(ctx context.Context, entry CacheEntry) error
	PurgeContentCache(ctx context.Context) error
}

// CachedSource wraps a live Source with a read-through persistent cache.
//
// Fresh entries are served without touching upstream. Expired entries are
// refetched; when the refetch fails with anything other than not-found, the
// expired payload is served instead and the outage is logged and recorded as
// telemetry. Preview fetches never pass through this layer, so cached
// payloads are always published content.
type CachedSource struct {
	upstream Source
	store    CacheStore
	emitter  *telemetry.Emitter
	clock    func() time.Time
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource builds a caching layer over upstream. The emitter may be
// nil, in which case stale serves are only logged.
func NewCachedSource(upstream Source, store CacheStore, emitter *telemetry.Emitter) *CachedSource {
	return &CachedSource{
		upstream: upstream,
		store:    store,
		emitter:  emitter,
		clock:    time.Now,
	}
}

// GetSitemap returns the routing table, preferring a fresh cached copy.
func (s *CachedSource) GetSitemap(ctx context.Context, locale string) ([]SitemapNode, error) {
	key := cacheKey(KindSitemap, locale, "sitemap")
	return cachedFetch(ctx, s, key, KindSitemap, locale, sitemapTTL, func(ctx context.Context) ([]SitemapNode, error) {
		return s.upstream.GetSitemap(ctx, locale)
	})
}

// GetPage returns a page definition, preferring a fresh cached copy.
func (s *CachedSource) GetPage(ctx context.Context, locale, pageID string) (Page, error) {
	key := cacheKey(KindPage, locale, pageID)
	return cachedFetch(ctx, s, key, KindPage, locale, pageTTL, func(ctx context.Context) (Page, error) {
		return s.upstream.GetPage(ctx, locale, pageID)
	})
}

// GetItem returns a content item, preferring a fresh cached copy.
func (s *CachedSource) GetItem(ctx context.Context, locale, itemID string) (Item, error) {
	key := cacheKey(KindItem, locale, itemID)
	return cachedFetch(ctx, s, key, KindItem, locale, itemTTL, func(ctx context.Context) (Item, error) {
		return s.upstream.GetItem(ctx, locale, itemID)
	})
}

// GetList returns one page of a content list, preferring a fresh cached copy.
func (s *CachedSource) GetList(ctx context.Context, locale, ref string, q Query) (List, error) {
	key := cacheKey(KindList, locale, ref+":take="+strconv.Itoa(q.Take)+":skip="+strconv.Itoa(q.Skip))
	return cachedFetch(ctx, s, key, KindList, locale, listTTL, func(ctx context.Context) (List, error) {
		return s.upstream.GetList(ctx, locale, ref, q)
	})
}

// Invalidate drops every cached entry. Publish webhooks call this so the
// next request refetches.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	if err := s.store.PurgeContentCache(ctx); err != nil {
		return fmt.Errorf("purge content cache: %w", err)
	}
	return nil
}

func cacheKey(kind Kind, locale, id string) string {
	return string(kind) + ":" + locale + ":" + id
}

func cachedFetch[T any](ctx context.Context, s *CachedSource, key string, kind Kind, locale string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	now := s.clock().UTC()

	entry, found, err := s.store.GetContentCacheEntry(ctx, key)
	if err != nil {
		log.Printf("content cache read %s: %v", key, err)
		found = false
	}
	if found && now.Before(entry.ExpiresAt) {
		var value T
		if err := json.Unmarshal(entry.PayloadBytes, &value); err == nil {
			return value, nil
		}
		// Corrupt payloads fall through to a refetch.
		found = false
	}

	value, fetchErr := fetch(ctx)
	if fetchErr == nil {
		payload, err := json.Marshal(value)
		if err != nil {
			log.Printf("content cache encode %s: %v", key, err)
			return value, nil
		}
		put := CacheEntry{
			CacheKey:     key,
			Kind:         kind,
			Locale:       locale,
			PayloadBytes: payload,
			RefreshedAt:  now,
			ExpiresAt:    now.Add(ttl),
		}
		if err := s.store.PutContentCacheEntry(ctx, put); err != nil {
			log.Printf("content cache write %s: %v", key, err)
		}
		return value, nil
	}

	// Not-found is authoritative; an expired copy must not resurrect a
	// deleted resource.
	if errors.Is(fetchErr, platformerrors.New(platformerrors.CodeContentNotFound, "")) {
		return zero, fetchErr
	}

	if found && len(entry.PayloadBytes) > 0 {
		var value T
		if err := json.Unmarshal(entry.PayloadBytes, &value); err == nil {
			log.Printf("content upstream failed, serving stale %s: %v", key, fetchErr)
			if emitErr := s.emitter.Emit(ctx, telemetry.Event{
				EventName: "content.cache.stale_served",
				Severity:  telemetry.SeverityWarn,
				Component: "content",
				Locale:    locale,
				Attributes: map[string]any{
					"cache_key": key,
					"kind":      string(kind),
					"cause":     fetchErr.Error(),
				},
			}); emitErr != nil {
				log.Printf("emit stale-served telemetry: %v", emitErr)
			}
			return value, nil
		}
	}
	return zero, fetchErr
}
