package search

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/BeingRelentless/QKart-Shopping/internal/domain/product"
)

type fakeTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	live := !t.stopped && !t.fired
	t.stopped = true
	return live
}

// fakeClock hands out timers that only fire when the test says so
type fakeClock struct {
	mu      sync.Mutex
	timers  []*fakeTimer
	windows []time.Duration
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{f: f}
	c.timers = append(c.timers, t)
	c.windows = append(c.windows, d)
	return t
}

// FireDue runs every timer that is still live, as if the window elapsed
func (c *fakeClock) FireDue() {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// Live counts timers that have been neither stopped nor fired
func (c *fakeClock) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) List(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]product.Product)
	return products, args.Error(1)
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]product.Product, error) {
	args := m.Called(ctx, query)
	products, _ := args.Get(0).([]product.Product)
	return products, args.Error(1)
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) RecordSearch(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[outcome]++
}

func (r *countingRecorder) Count(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[outcome]
}

type collector struct {
	mu      sync.Mutex
	results []Result
}

func (c *collector) deliver(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *collector) all() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}
