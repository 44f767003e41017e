// Package scanner fetches HTML pages concurrently and reports every script
// source they reference, classified and named through a sourceutil.Locator.
// It honours robots.txt, paces requests with an adaptive rate limiter and
// retries transient failures.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/framesrc/dedup"
	"github.com/lukemcguire/framesrc/result"
	"github.com/lukemcguire/framesrc/sourceutil"
)

const defaultUserAgent = "framesrc/1.0 (+https://github.com/lukemcguire/framesrc)"

// Config holds scanner configuration.
type Config struct {
	Pages          []string      // Pages to scan
	Concurrency    int           // Number of concurrent workers
	RequestTimeout time.Duration // Per-request timeout
	RateLimit      float64       // Initial pages per second
	TargetRTT      time.Duration // Response time the limiter steers towards; 0 fixes the rate
	UserAgent      string        // User-Agent for pages and robots.txt
	RetryPolicy    RetryPolicy   // Backoff for transient failures
	MemoryLimitMB  int64         // Heap budget to warn against; 0 disables
	MaxBodyBytes   int64         // Largest page body tokenized
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(pages ...string) Config {
	return Config{
		Pages:          pages,
		Concurrency:    8,
		RequestTimeout: 10 * time.Second,
		RateLimit:      10,
		TargetRTT:      500 * time.Millisecond,
		UserAgent:      defaultUserAgent,
		RetryPolicy:    DefaultRetryPolicy(),
		MemoryLimitMB:  512,
		MaxBodyBytes:   defaultMaxBodyBytes,
	}
}

// Scanner coordinates page fetches over a worker pool.
type Scanner struct {
	cfg        Config
	client     *http.Client
	locator    *sourceutil.Locator
	logger     *zap.Logger
	limiter    *AdaptiveLimiter
	robots     *RobotsChecker
	memory     *MemoryWatcher
	seen       *dedup.Tracker
	progressCh chan<- Event
}

// New creates a Scanner. loc resolves source names and may be shared with
// other callers; logger and progressCh are optional.
func New(cfg Config, loc *sourceutil.Locator, logger *zap.Logger, progressCh chan<- Event) (*Scanner, error) {
	defaults := DefaultConfig()
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaults.Concurrency
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaults.RateLimit
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.RetryPolicy.BaseDelay <= 0 {
		cfg.RetryPolicy.BaseDelay = defaults.RetryPolicy.BaseDelay
	}
	if cfg.RetryPolicy.MaxDelay <= 0 {
		cfg.RetryPolicy.MaxDelay = defaults.RetryPolicy.MaxDelay
	}
	if cfg.RetryPolicy.MaxRetries < 0 {
		cfg.RetryPolicy.MaxRetries = 0
	}
	if loc == nil {
		loc = sourceutil.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seen, err := dedup.NewTracker(0, 0)
	if err != nil {
		return nil, fmt.Errorf("create source tracker: %w", err)
	}

	s := &Scanner{
		cfg:        cfg,
		client:     &http.Client{},
		locator:    loc,
		logger:     logger,
		limiter:    NewAdaptiveLimiter(cfg.RateLimit, cfg.TargetRTT),
		robots:     NewRobotsChecker(&http.Client{Timeout: 5 * time.Second}, cfg.UserAgent),
		memory:     NewMemoryWatcher(cfg.MemoryLimitMB),
		seen:       seen,
		progressCh: progressCh,
	}

	s.memory.OnChange(func(level PressureLevel, used float64) {
		fields := []zap.Field{
			zap.Stringer("level", level),
			zap.Float64("used_percent", used),
			zap.Int64("limit_mb", cfg.MemoryLimitMB),
		}
		if level == PressureNormal {
			logger.Info("Memory pressure relieved", fields...)
			return
		}
		stats := loc.Stats()
		logger.Warn("Memory pressure",
			append(fields,
				zap.Int64("url_entries", stats.URLEntries),
				zap.Int64("names_entries", stats.NamesEntries))...)
	})

	return s, nil
}

// Close releases the scanner's dedup tracker.
func (s *Scanner) Close() error {
	return s.seen.Close()
}

// Run scans every configured page once and returns the sources found and the
// pages that failed. Cancelling ctx stops pending fetches; pages not yet
// fetched are reported as canceled.
func (s *Scanner) Run(ctx context.Context) (*result.Result, error) {
	start := time.Now()

	pages, err := s.normalizePages()
	if err != nil {
		return nil, err
	}

	jobs := make(chan string)
	results := make(chan pageResult, s.cfg.Concurrency)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer close(jobs)
		for _, page := range pages {
			select {
			case jobs <- page:
			case <-groupCtx.Done():
				return nil
			}
		}
		return nil
	})

	var workers sync.WaitGroup
	for range s.cfg.Concurrency {
		workers.Add(1)
		group.Go(func() error {
			defer workers.Done()
			for page := range jobs {
				results <- s.scanPage(groupCtx, page)
			}
			return nil
		})
	}

	go func() {
		workers.Wait()
		close(results)
	}()

	res := &result.Result{Sources: []result.SourceReport{}}
	processed := make(map[string]bool, len(pages))

	for page := range results {
		processed[page.URL] = true
		res.Stats.PagesScanned++
		newSources := 0

		for _, source := range page.Sources {
			if !s.seen.AddIfNew(source) {
				continue
			}
			newSources++
			res.Sources = append(res.Sources, result.NewSourceReport(s.locator, source, page.URL))
		}

		evt := Event{URL: page.URL, StatusCode: page.StatusCode, NewSources: newSources}
		if page.Err != nil {
			pageErr := result.PageError{
				URL:           page.URL,
				StatusCode:    page.StatusCode,
				Error:         page.Err.Error(),
				ErrorCategory: result.ClassifyError(page.Err, page.StatusCode),
			}
			res.Errors = append(res.Errors, pageErr)
			evt.Error = pageErr.Error
			evt.ErrorCategory = pageErr.ErrorCategory
			s.logger.Warn("Page scan failed",
				zap.String("url", page.URL),
				zap.Int("status", page.StatusCode),
				zap.String("category", string(pageErr.ErrorCategory)),
				zap.Error(page.Err))
		}

		s.memory.Check()

		evt.Pages = res.Stats.PagesScanned
		evt.Sources = len(res.Sources)
		evt.Failed = len(res.Errors)
		s.emit(ctx, evt)
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("wait for workers: %w", err)
	}
	if err := s.seen.LastError(); err != nil {
		s.logger.Debug("Source tracker sync failed", zap.Error(err))
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		for _, page := range pages {
			if processed[page] {
				continue
			}
			res.Errors = append(res.Errors, result.PageError{
				URL:           page,
				Error:         ctxErr.Error(),
				ErrorCategory: result.ClassifyError(ctxErr, 0),
			})
		}
	}

	res.Stats.SourcesFound = len(res.Sources)
	res.Stats.PageErrors = len(res.Errors)
	res.Stats.Duration = time.Since(start)

	s.logger.Debug("Scan finished",
		zap.Int("pages", res.Stats.PagesScanned),
		zap.Int("sources", res.Stats.SourcesFound),
		zap.Uint32("tracked_sources", s.seen.ApproximateCount()),
		zap.Float64("rate", s.limiter.Rate()),
		zap.Duration("avg_rtt", s.limiter.AverageRTT()),
		zap.Duration("duration", res.Stats.Duration))
	return res, nil
}

// scanPage runs the robots.txt check, waits on the limiter and fetches.
func (s *Scanner) scanPage(ctx context.Context, page string) pageResult {
	allowed, robotsErr := s.robots.Allowed(ctx, page)
	if robotsErr != nil {
		s.logger.Debug("robots.txt unavailable, allowing", zap.String("url", page), zap.Error(robotsErr))
	}
	if !allowed {
		return pageResult{URL: page, Err: fmt.Errorf("%s: %w", page, result.ErrDisallowed)}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return pageResult{URL: page, Err: fmt.Errorf("rate limiter wait: %w", errors.Join(err, ctx.Err()))}
	}

	return fetchWithRetry(ctx, s.client, page, s.cfg, s.limiter.ObserveRTT)
}

// normalizePages canonicalizes and deduplicates the configured pages,
// keeping their order.
func (s *Scanner) normalizePages() ([]string, error) {
	if len(s.cfg.Pages) == 0 {
		return nil, errors.New("no pages to scan")
	}

	pages := make([]string, 0, len(s.cfg.Pages))
	seen := make(map[string]bool, len(s.cfg.Pages))
	for _, raw := range s.cfg.Pages {
		page, err := sourceutil.Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("normalize page URL: %w", err)
		}
		if seen[page] {
			continue
		}
		seen[page] = true
		pages = append(pages, page)
	}
	return pages, nil
}

func (s *Scanner) emit(ctx context.Context, evt Event) {
	if s.progressCh == nil {
		return
	}
	select {
	case s.progressCh <- evt:
	case <-ctx.Done():
	}
}
