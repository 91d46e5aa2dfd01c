package throttle

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// MockClock allows controlling time in tests
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func (mc *MockClock) Now() time.Time {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.now
}

func (mc *MockClock) Advance(d time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.now = mc.now.Add(d)
}

func TestLimiter_Burst(t *testing.T) {
	clock := &MockClock{now: time.Unix(1700000000, 0)}
	l := NewLimiter(0.2, 3).WithClock(clock)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(), "request %d within burst", i)
	}
	assert.False(t, l.Allow(), "burst exhausted")
}

func TestLimiter_Refill(t *testing.T) {
	clock := &MockClock{now: time.Unix(1700000000, 0)}
	l := NewLimiter(0.2, 1).WithClock(clock)

	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	clock.Advance(4 * time.Second)
	assert.False(t, l.Allow(), "one token takes five seconds")

	clock.Advance(time.Second)
	assert.True(t, l.Allow())
}

func TestLimiter_Disabled(t *testing.T) {
	clock := &MockClock{now: time.Unix(1700000000, 0)}
	l := NewLimiter(0, 0).WithClock(clock)

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow())
	}
}

func TestLimiter_SetRate(t *testing.T) {
	clock := &MockClock{now: time.Unix(1700000000, 0)}
	l := NewLimiter(0.2, 1).WithClock(clock)

	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	l.SetRate(0, 1)
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
}
