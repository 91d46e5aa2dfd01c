package throttle

import (
	"time"

	"golang.org/x/time/rate"
)

// Clock supplies the time the limiter measures against.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// Limiter caps how often a user-triggered action may run.
type Limiter struct {
	limiter *rate.Limiter
	clock   Clock
}

// NewLimiter allows perSecond actions on average with bursts of burst.
// A non-positive perSecond disables limiting.
func NewLimiter(perSecond float64, burst int) *Limiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, burst),
		clock:   RealClock{},
	}
}

// WithClock replaces the clock, for tests.
func (l *Limiter) WithClock(clock Clock) *Limiter {
	l.clock = clock
	return l
}

// Allow reports whether one action may run now and consumes a token if so.
func (l *Limiter) Allow() bool {
	return l.limiter.AllowN(l.clock.Now(), 1)
}

// SetRate changes the limit and burst in place.
func (l *Limiter) SetRate(perSecond float64, burst int) {
	now := l.clock.Now()
	if perSecond <= 0 {
		l.limiter.SetLimitAt(now, rate.Inf)
	} else {
		l.limiter.SetLimitAt(now, rate.Limit(perSecond))
	}
	if burst < 1 {
		burst = 1
	}
	l.limiter.SetBurstAt(now, burst)
}
