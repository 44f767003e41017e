package scanner

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// minRate and maxRate bound the adaptive rate in pages per second.
	minRate = 1.0
	maxRate = 50.0

	// rttSmoothing is the weight of a new observation in the moving average.
	rttSmoothing = 0.2

	// speedUp is applied per observation below the target RTT.
	speedUp = 1.1

	// maxSlowDown bounds how far one observation can cut the rate.
	maxSlowDown = 0.5

	// rateEpsilon is the smallest change applied to the underlying limiter.
	rateEpsilon = 0.1
)

// AdaptiveLimiter paces page fetches and adjusts the pace from observed
// response times, tracked as an exponential moving average.
type AdaptiveLimiter struct {
	limiter   *rate.Limiter
	targetRTT time.Duration

	mu     sync.Mutex
	avgRTT time.Duration
	rps    float64
	fixed  bool
}

// NewAdaptiveLimiter starts at initialRPS pages per second. A targetRTT of
// zero fixes the rate.
func NewAdaptiveLimiter(initialRPS float64, targetRTT time.Duration) *AdaptiveLimiter {
	rps := clampRate(initialRPS)
	return &AdaptiveLimiter{
		limiter:   rate.NewLimiter(rate.Limit(rps), burst(rps)),
		targetRTT: targetRTT,
		avgRTT:    targetRTT,
		rps:       rps,
		fixed:     targetRTT <= 0,
	}
}

// Wait blocks until the next fetch may start or ctx is done.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// ObserveRTT folds one response time into the average and retunes the rate.
func (a *AdaptiveLimiter) ObserveRTT(rtt time.Duration) {
	if rtt <= 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fixed {
		return
	}

	a.avgRTT = time.Duration(rttSmoothing*float64(rtt) + (1-rttSmoothing)*float64(a.avgRTT))

	ratio := float64(a.targetRTT) / float64(a.avgRTT)
	next := a.rps * speedUp
	if ratio < 1 {
		next = max(a.rps*ratio, a.rps*maxSlowDown)
	}
	next = clampRate(next)

	if math.Abs(next-a.rps) > rateEpsilon {
		a.setLocked(next)
	}
}

// SetRate pins the rate and stops adaptation.
func (a *AdaptiveLimiter) SetRate(rps float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fixed = true
	a.setLocked(clampRate(rps))
}

// Rate returns the current rate in pages per second.
func (a *AdaptiveLimiter) Rate() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rps
}

// AverageRTT returns the current moving average of response times.
func (a *AdaptiveLimiter) AverageRTT() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.avgRTT
}

func (a *AdaptiveLimiter) setLocked(rps float64) {
	a.rps = rps
	a.limiter.SetLimit(rate.Limit(rps))
	a.limiter.SetBurst(burst(rps))
}

func clampRate(rps float64) float64 {
	return min(max(rps, minRate), maxRate)
}

func burst(rps float64) int {
	return int(math.Ceil(rps))
}
