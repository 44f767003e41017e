// Package sourceutil classifies source identifiers (script URLs, data URIs and
// internal pseudo-paths such as "Scratchpad/1" or "self-hosted") and derives
// the short, long and host names shown next to stack frames.
//
// Lookups are memoized per Locator. Caches are keyed by the literal input and
// never evicted; callers that see an unbounded stream of distinct sources
// should use a short-lived Locator instead of the package-level functions.
package sourceutil

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Locator owns the parse and name caches. It is safe for concurrent use.
type Locator struct {
	urls  sync.Map // string -> *ParsedURL, nil for locations that are not URLs
	names sync.Map // string -> SourceNames

	urlEntries  atomic.Int64
	nameEntries atomic.Int64

	logger  *zap.Logger
	metrics *locatorMetrics
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger used to report unparseable sources at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Locator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithRegisterer registers the locator's cache metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(l *Locator) {
		l.metrics = newLocatorMetrics(reg)
	}
}

// NewLocator creates a Locator with empty caches.
func NewLocator(opts ...Option) *Locator {
	l := &Locator{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CacheStats reports the number of entries held by each cache.
type CacheStats struct {
	URLEntries   int64
	NamesEntries int64
}

// Stats returns the current cache sizes.
func (l *Locator) Stats() CacheStats {
	return CacheStats{
		URLEntries:   l.urlEntries.Load(),
		NamesEntries: l.nameEntries.Load(),
	}
}

// ParseURL returns the structural form of location. The boolean is false when
// location is not a URL; that outcome is cached like any other.
func (l *Locator) ParseURL(location string) (ParsedURL, bool) {
	if cached, ok := l.urls.Load(location); ok {
		l.metrics.observe(cacheURL, true, 0)
		return derefParsed(cached.(*ParsedURL))
	}

	parsed, err := parseLocation(location)
	if err != nil {
		l.logger.Debug("source is not a URL", zap.String("location", location), zap.Error(err))
		parsed = nil
	}

	stored, loaded := l.urls.LoadOrStore(location, parsed)
	if !loaded {
		l.metrics.observe(cacheURL, false, l.urlEntries.Add(1))
	} else {
		l.metrics.observe(cacheURL, true, 0)
	}
	return derefParsed(stored.(*ParsedURL))
}

func derefParsed(p *ParsedURL) (ParsedURL, bool) {
	if p == nil {
		return ParsedURL{}, false
	}
	return *p, true
}

// GetSourceNames returns the display names for source. It never fails:
// text that is not a URL becomes its own short and long name.
func (l *Locator) GetSourceNames(source string) SourceNames {
	if cached, ok := l.names.Load(source); ok {
		l.metrics.observe(cacheNames, true, 0)
		return cached.(SourceNames)
	}

	names := l.resolveNames(source)

	stored, loaded := l.names.LoadOrStore(source, names)
	if !loaded {
		l.metrics.observe(cacheNames, false, l.nameEntries.Add(1))
	} else {
		l.metrics.observe(cacheNames, true, 0)
	}
	return stored.(SourceNames)
}

var defaultLocator = NewLocator()

// Default returns the process-wide Locator behind the package-level functions.
func Default() *Locator {
	return defaultLocator
}

// ParseURL parses location using the process-wide Locator.
func ParseURL(location string) (ParsedURL, bool) {
	return defaultLocator.ParseURL(location)
}

// GetSourceNames resolves source using the process-wide Locator.
func GetSourceNames(source string) SourceNames {
	return defaultLocator.GetSourceNames(source)
}
