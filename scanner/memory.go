package scanner

import (
	"runtime"
	"sync"
)

// PressureLevel indicates heap pressure relative to a configured limit.
type PressureLevel int

const (
	PressureNormal   PressureLevel = iota
	PressureWarning                // 75-90% of the limit
	PressureCritical               // 90% and above
)

func (l PressureLevel) String() string {
	switch l {
	case PressureWarning:
		return "warning"
	case PressureCritical:
		return "critical"
	default:
		return "normal"
	}
}

// MemoryWatcher compares heap usage against a soft limit and reports level
// changes. The locator caches grow with every distinct source, so a long
// scan can outgrow its budget; the watcher only observes and never sets the
// runtime memory limit.
type MemoryWatcher struct {
	limitBytes uint64
	readHeap   func() uint64

	mu       sync.Mutex
	last     PressureLevel
	onChange func(level PressureLevel, usedPercent float64)
}

// NewMemoryWatcher watches against limitMB megabytes. A zero limit disables
// the watcher.
func NewMemoryWatcher(limitMB int64) *MemoryWatcher {
	var limit uint64
	if limitMB > 0 {
		limit = uint64(limitMB) << 20
	}
	return &MemoryWatcher{
		limitBytes: limit,
		readHeap:   heapAlloc,
	}
}

// OnChange registers fn to be called whenever the pressure level changes.
func (m *MemoryWatcher) OnChange(fn func(level PressureLevel, usedPercent float64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Check samples the heap and returns the usage percentage and level.
func (m *MemoryWatcher) Check() (float64, PressureLevel) {
	if m.limitBytes == 0 {
		return 0, PressureNormal
	}

	used := float64(m.readHeap()) / float64(m.limitBytes) * 100

	level := PressureNormal
	switch {
	case used >= 90:
		level = PressureCritical
	case used >= 75:
		level = PressureWarning
	}

	m.mu.Lock()
	changed := level != m.last
	m.last = level
	fn := m.onChange
	m.mu.Unlock()

	if changed && fn != nil {
		fn(level, used)
	}
	return used, level
}

func heapAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapAlloc
}
