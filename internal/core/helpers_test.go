package core_test

import (
	"fmt"
	"sync"
	"time"
)

// epoch is the start time of every fakeClock.
//
//nolint:gochecknoglobals // fixed test epoch
var epoch = time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)

// fakeClock hands out strictly increasing timestamps, one step apart.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: epoch, step: time.Millisecond}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now
	c.now = c.now.Add(c.step)

	return now
}

// fakeReporter captures failures instead of stopping the test.
type fakeReporter struct {
	mu       sync.Mutex
	failures []string
}

func (r *fakeReporter) Failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.failures...)
}

func (r *fakeReporter) Fatalf(format string, args ...any) {
	r.mu.Lock()
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *fakeReporter) Helper() {}
