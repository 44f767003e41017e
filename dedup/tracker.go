// Package dedup reports each key once across a long-running scan using a
// bloom filter whose bits are mirrored to a memory-mapped temp file.
package dedup

import (
	"errors"
	"fmt"
	"os"
	"sync"

	bloom "github.com/bits-and-blooms/bloom/v3"
	"github.com/edsrzf/mmap-go"
)

const (
	// DefaultCapacity is the number of keys the filter is sized for.
	DefaultCapacity = 100_000
	// DefaultFalsePositiveRate is the target false positive rate at capacity.
	DefaultFalsePositiveRate = 0.001

	defaultSyncEvery = 1000
)

// Tracker remembers keys it has seen. A false positive makes a new key look
// seen; a seen key is never reported as new.
type Tracker struct {
	mu        sync.Mutex
	filter    *bloom.BloomFilter
	file      *os.File
	mapped    mmap.MMap
	path      string
	pending   uint64 // keys added since the last sync
	syncEvery uint64
	lastErr   error
}

// NewTracker creates a Tracker sized for capacity keys at the given false
// positive rate. Zero values select the defaults.
func NewTracker(capacity uint, fpRate float64) (*Tracker, error) {
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFalsePositiveRate
	}
	filter := bloom.NewWithEstimates(capacity, fpRate)

	data, err := filter.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal bloom filter: %w", err)
	}

	file, err := os.CreateTemp("", "framesrc-seen-*.bloom")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := file.Name()

	cleanup := func(cause error) error {
		return errors.Join(cause, file.Close(), os.Remove(path))
	}

	if err := file.Truncate(int64(len(data))); err != nil {
		return nil, cleanup(fmt.Errorf("size temp file: %w", err))
	}

	mapped, err := mmap.MapRegion(file, len(data), mmap.RDWR, 0, 0)
	if err != nil {
		return nil, cleanup(fmt.Errorf("mmap temp file: %w", err))
	}
	copy(mapped, data)

	return &Tracker{
		filter:    filter,
		file:      file,
		mapped:    mapped,
		path:      path,
		syncEvery: defaultSyncEvery,
	}, nil
}

// Seen reports whether key may have been added before.
func (t *Tracker) Seen(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.filter.TestString(key)
}

// Add records key.
func (t *Tracker) Add(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.addLocked(key)
}

// AddIfNew records key and reports whether it was new. The test and the
// insert happen under one lock.
func (t *Tracker) AddIfNew(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.filter.TestString(key) {
		return false
	}
	t.addLocked(key)
	return true
}

func (t *Tracker) addLocked(key string) {
	t.filter.AddString(key)
	t.pending++

	if t.pending >= t.syncEvery {
		// Periodic syncs are best-effort; the error surfaces via LastError.
		if err := t.syncLocked(); err != nil {
			t.lastErr = err
		}
	}
}

// syncLocked copies the filter into the mapping and flushes it. Must be
// called with mu held.
func (t *Tracker) syncLocked() error {
	if t.mapped == nil {
		return nil
	}

	data, err := t.filter.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal bloom filter: %w", err)
	}
	if len(data) > len(t.mapped) {
		return fmt.Errorf("filter data (%d bytes) exceeds mapping (%d bytes)", len(data), len(t.mapped))
	}
	copy(t.mapped, data)

	if err := t.mapped.Flush(); err != nil {
		return fmt.Errorf("flush mmap: %w", err)
	}
	t.pending = 0
	return nil
}

// ApproximateCount estimates how many distinct keys were added.
func (t *Tracker) ApproximateCount() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.filter.ApproximatedSize()
}

// LastError returns the last error from a periodic sync, if any.
func (t *Tracker) LastError() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.lastErr
}

// Close syncs pending keys, unmaps and removes the temp file. Calling Close
// twice is safe.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	if t.lastErr != nil {
		errs = append(errs, t.lastErr)
		t.lastErr = nil
	}

	if t.mapped != nil {
		if t.pending > 0 {
			if err := t.syncLocked(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := t.mapped.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap: %w", err))
		}
		t.mapped = nil
	}

	if t.file != nil {
		if err := t.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close file: %w", err))
		}
		t.file = nil
	}

	if t.path != "" {
		if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove temp file: %w", err))
		}
		t.path = ""
	}

	if len(errs) > 0 {
		return fmt.Errorf("close dedup tracker: %w", errors.Join(errs...))
	}
	return nil
}
