package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/logging"
)

// DefaultTimeout bounds a single fetch when the caller passes zero.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps a feed download.
const maxBodyBytes = 8 << 20

var (
	ErrEmptyURL    = errors.New("feed: calendar url is empty")
	ErrInvalidURL  = errors.New("feed: invalid calendar url")
	ErrNotModified = errors.New("feed: not modified and nothing cached")
)

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed: unexpected response %s", e.Status)
}

type cacheEntry struct {
	etag         string
	lastModified string
	body         []byte
}

// Client downloads calendar feeds. It remembers the validators of the last
// successful response per URL and sends them back so an unchanged feed
// costs a 304.
type Client struct {
	http *http.Client
	log  *zap.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewClient(timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:  &http.Client{Timeout: timeout},
		log:   logging.OrNop(log),
		cache: make(map[string]cacheEntry),
	}
}

// Fetch returns the feed body. webcal:// URLs are fetched over https.
// A network failure or bad status falls back to the cached body when one
// exists.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	cached, hasCache := c.cache[target]
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("Accept", "text/calendar, */*;q=0.5")
	if hasCache {
		if cached.etag != "" {
			req.Header.Set("If-None-Match", cached.etag)
		}
		if cached.lastModified != "" {
			req.Header.Set("If-Modified-Since", cached.lastModified)
		}
	}

	c.log.Debug("feed_fetch_start", zap.String("url", RedactURL(target)))
	resp, err := c.http.Do(req)
	if err != nil {
		if hasCache && ctx.Err() == nil {
			c.log.Warn("feed_fetch_failed_using_cache", zap.String("url", RedactURL(target)), zap.Error(err))
			return cached.body, nil
		}
		return nil, fmt.Errorf("feed: fetch: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("feed: read body: %w", err)
		}
		c.mu.Lock()
		c.cache[target] = cacheEntry{
			etag:         resp.Header.Get("ETag"),
			lastModified: resp.Header.Get("Last-Modified"),
			body:         body,
		}
		c.mu.Unlock()
		c.log.Info("feed_fetch_ok", zap.String("url", RedactURL(target)), zap.Int("bytes", len(body)))
		return body, nil
	case http.StatusNotModified:
		if !hasCache {
			return nil, ErrNotModified
		}
		c.log.Info("feed_not_modified", zap.String("url", RedactURL(target)))
		return cached.body, nil
	default:
		statusErr := &StatusError{Code: resp.StatusCode, Status: resp.Status}
		if hasCache {
			c.log.Warn("feed_bad_status_using_cache", zap.String("url", RedactURL(target)), zap.Int("status", resp.StatusCode))
			return cached.body, nil
		}
		return nil, statusErr
	}
}

// NormalizeURL trims the input, maps webcal to https and requires an
// http(s) URL with a host.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "webcal", "webcals":
		u.Scheme = "https"
	case "http", "https":
	default:
		return "", fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u.String(), nil
}

// RedactURL keeps only scheme and host. Subscription URLs usually embed a
// private token.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
