package scanner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

const (
	robotsCacheTTL = time.Hour
	robotsMaxBytes = 512 << 10
	robotsPath     = "/robots.txt"
)

// robotsEntry is an origin's parsed robots.txt. Nil data allows everything.
type robotsEntry struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
}

// RobotsChecker fetches and caches robots.txt rules per scheme and host.
type RobotsChecker struct {
	client    *http.Client
	userAgent string
	ttl       time.Duration
	now       func() time.Time

	mu    sync.Mutex
	cache map[string]*robotsEntry
}

// NewRobotsChecker creates a RobotsChecker that identifies itself as
// userAgent both when fetching robots.txt and when matching rule groups.
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		ttl:       robotsCacheTTL,
		now:       time.Now,
		cache:     make(map[string]*robotsEntry),
	}
}

// Allowed reports whether pageURL may be fetched. Any failure to obtain or
// parse robots.txt allows the page; the error is returned alongside so the
// caller can log it.
func (r *RobotsChecker) Allowed(ctx context.Context, pageURL string) (bool, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return true, nil
	}

	key := parsed.Scheme + "://" + parsed.Host
	entry, fetchErr := r.entry(ctx, key)
	if entry.data == nil {
		return true, fetchErr
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	return entry.data.TestAgent(path, r.userAgent), fetchErr
}

func (r *RobotsChecker) entry(ctx context.Context, key string) (*robotsEntry, error) {
	r.mu.Lock()
	cached, ok := r.cache[key]
	r.mu.Unlock()
	if ok && r.now().Sub(cached.fetchedAt) < r.ttl {
		return cached, nil
	}

	data, err := r.fetch(ctx, key)
	entry := &robotsEntry{data: data, fetchedAt: r.now()}

	r.mu.Lock()
	r.cache[key] = entry
	r.mu.Unlock()
	return entry, err
}

// fetch downloads and parses robots.txt for origin. A nil result means
// allow-all: missing file, server error, or any fetch failure.
func (r *RobotsChecker) fetch(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+robotsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create robots.txt request for %s: %w", origin, err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt for %s: %w", origin, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, robotsMaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt for %s: %w", origin, err)
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt for %s: %w", origin, err)
	}
	return data, nil
}

// ClearCache forgets every cached robots.txt.
func (r *RobotsChecker) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}
