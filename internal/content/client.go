package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	platformerrors "github.com/lumastack/lumastack.com/internal/platform/errors"
	"github.com/lumastack/lumastack.com/internal/platform/timeouts"
)

const (
	fetchAttempts   = 3
	fetchRetryDelay = 300 * time.Millisecond
	defaultListTake = 20
	maxListTake     = 50
)

// ClientConfig configures the content API client.
type ClientConfig struct {
	// BaseURL is the content API root, e.g. https://content.lumastack.dev/v1.
	BaseURL string
	// APIKey authorizes published-content fetches.
	APIKey string
	// PreviewKey authorizes draft-content fetches; required for ModePreview.
	PreviewKey string
	// Mode selects published or draft content. Empty means ModeLive.
	Mode Mode
	// HTTPClient overrides the instrumented default client.
	HTTPClient *http.Client
}

// Client fetches content from the REST API. Transport failures and 5xx
// responses are retried a bounded number of times; missing resources are
// reported as typed not-found errors without retrying.
type Client struct {
	baseURL string
	key     string
	mode    Mode
	http    *http.Client
}

var _ Source = (*Client)(nil)

// NewClient builds a content API client for one mode.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, platformerrors.New(platformerrors.CodeContentSourceUnconfigured, "content API base URL is required")
	}
	mode := cfg.Mode
	if mode == "" {
		mode = ModeLive
	}
	key := strings.TrimSpace(cfg.APIKey)
	if mode == ModePreview {
		key = strings.TrimSpace(cfg.PreviewKey)
	}
	if key == "" {
		return nil, platformerrors.New(platformerrors.CodeContentSourceUnconfigured, "content API key is required for mode "+string(mode))
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeouts.ContentRequest,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{baseURL: base, key: key, mode: mode, http: httpClient}, nil
}

// Mode reports which content mode the client is bound to.
func (c *Client) Mode() Mode {
	return c.mode
}

// GetSitemap fetches the routing table for a locale.
func (c *Client) GetSitemap(ctx context.Context, locale string) ([]SitemapNode, error) {
	if strings.TrimSpace(locale) == "" {
		return nil, platformerrors.New(platformerrors.CodeContentLocaleEmpty, "locale is required")
	}
	var nodes []SitemapNode
	if err := c.getJSON(ctx, c.resourcePath(locale, "sitemap"), nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// GetPage fetches a page definition by id.
func (c *Client) GetPage(ctx context.Context, locale, pageID string) (Page, error) {
	if strings.TrimSpace(locale) == "" {
		return Page{}, platformerrors.New(platformerrors.CodeContentLocaleEmpty, "locale is required")
	}
	if strings.TrimSpace(pageID) == "" {
		return Page{}, platformerrors.New(platformerrors.CodeContentReferenceEmpty, "page id is required")
	}
	var page Page
	if err := c.getJSON(ctx, c.resourcePath(locale, "page", pageID), nil, &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

// GetItem fetches a single content item by id.
func (c *Client) GetItem(ctx context.Context, locale, itemID string) (Item, error) {
	if strings.TrimSpace(locale) == "" {
		return Item{}, platformerrors.New(platformerrors.CodeContentLocaleEmpty, "locale is required")
	}
	if strings.TrimSpace(itemID) == "" {
		return Item{}, platformerrors.New(platformerrors.CodeContentReferenceEmpty, "item id is required")
	}
	var item Item
	if err := c.getJSON(ctx, c.resourcePath(locale, "item", itemID), nil, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// GetList fetches one page of a content list by reference name.
func (c *Client) GetList(ctx context.Context, locale, ref string, q Query) (List, error) {
	if strings.TrimSpace(locale) == "" {
		return List{}, platformerrors.New(platformerrors.CodeContentLocaleEmpty, "locale is required")
	}
	if strings.TrimSpace(ref) == "" {
		return List{}, platformerrors.New(platformerrors.CodeContentReferenceEmpty, "list reference is required")
	}
	take := q.Take
	if take <= 0 {
		take = defaultListTake
	}
	if take > maxListTake {
		take = maxListTake
	}
	skip := q.Skip
	if skip < 0 {
		skip = 0
	}
	query := url.Values{}
	query.Set("take", strconv.Itoa(take))
	query.Set("skip", strconv.Itoa(skip))

	var list List
	if err := c.getJSON(ctx, c.resourcePath(locale, "list", ref), query, &list); err != nil {
		return List{}, err
	}
	return list, nil
}

func (c *Client) resourcePath(locale string, parts ...string) string {
	segments := []string{string(c.mode), locale}
	segments = append(segments, parts...)
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return retry.Do(
		func() error { return c.fetchOnce(ctx, endpoint, target) },
		retry.Context(ctx),
		retry.Attempts(fetchAttempts),
		retry.Delay(fetchRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	)
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return platformerrors.Wrap(platformerrors.CodeContentUpstreamFailed, "build content request", err)
	}
	req.Header.Set("X-API-Key", c.key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &transientError{platformerrors.Wrap(platformerrors.CodeContentUpstreamFailed, "content API request", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return platformerrors.WithMetadata(platformerrors.CodeContentNotFound, "content not found", map[string]string{"endpoint": endpoint})
	case resp.StatusCode >= http.StatusInternalServerError:
		return &transientError{platformerrors.WithMetadata(platformerrors.CodeContentUpstreamFailed, "content API returned "+resp.Status, map[string]string{"endpoint": endpoint})}
	case resp.StatusCode != http.StatusOK:
		return platformerrors.WithMetadata(platformerrors.CodeContentUpstreamFailed, "content API returned "+resp.Status, map[string]string{"endpoint": endpoint})
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return platformerrors.Wrap(platformerrors.CodeContentDecodeFailed, "decode content response", err)
	}
	return nil
}

// transientError marks failures worth retrying: transport errors and 5xx
// responses. Everything else fails fast.
type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return e.err.Error()
}

func (e *transientError) Unwrap() error {
	return e.err
}

func isTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}
