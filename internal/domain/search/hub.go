package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrHubClosed is returned for input after Close
var ErrHubClosed = errors.New("search hub closed")

const subscriberBuffer = 8

// HubConfig tunes a Hub
type HubConfig struct {
	Window  time.Duration
	IdleTTL time.Duration
}

type visitorSearch struct {
	debouncer   *Debouncer
	subscribers map[int]chan Result
	nextID      int
	latest      *Result
	lastSeen    time.Time
}

// Hub owns one Debouncer per visitor and fans each visitor's results out
// to that visitor's subscribers.
type Hub struct {
	mu       sync.Mutex
	cfg      HubConfig
	searcher Searcher
	logger   *logrus.Logger
	opts     []Option
	now      func() time.Time

	ctx      context.Context
	cancel   context.CancelFunc
	visitors map[string]*visitorSearch
	closed   bool
}

// NewHub creates a search Hub. opts are applied to every Debouncer.
func NewHub(cfg HubConfig, searcher Searcher, logger *logrus.Logger, opts ...Option) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		cfg:      cfg,
		searcher: searcher,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		visitors: make(map[string]*visitorSearch),
	}
}

// Input feeds one keystroke's worth of text into the visitor's debouncer
func (h *Hub) Input(visitorID, text string) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	v := h.visitor(visitorID)
	v.lastSeen = h.now()
	d := v.debouncer
	h.mu.Unlock()

	d.OnInput(text)
	return nil
}

// Subscribe returns a channel of the visitor's results and a function
// that cancels the subscription. Slow subscribers miss results rather
// than block delivery.
func (h *Hub) Subscribe(visitorID string) (<-chan Result, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Result, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	v := h.visitor(visitorID)
	v.lastSeen = h.now()
	id := v.nextID
	v.nextID++
	v.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := v.subscribers[id]; ok {
				delete(v.subscribers, id)
				close(sub)
			}
			v.lastSeen = h.now()
		})
	}
}

// Latest returns the visitor's most recent result
func (h *Hub) Latest(visitorID string) (Result, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, ok := h.visitors[visitorID]
	if !ok || v.latest == nil {
		return Result{}, false
	}
	return *v.latest, true
}

// State reports the visitor's debouncer state
func (h *Hub) State(visitorID string) State {
	h.mu.Lock()
	v, ok := h.visitors[visitorID]
	h.mu.Unlock()

	if !ok {
		return Idle
	}
	return v.debouncer.State()
}

// Sweep evicts visitors idle for longer than IdleTTL that have no open
// subscriptions and nothing pending. It returns how many were evicted.
func (h *Hub) Sweep(now time.Time) int {
	h.mu.Lock()
	candidates := make(map[string]*visitorSearch)
	for id, v := range h.visitors {
		if h.idle(v, now) {
			candidates[id] = v
		}
	}
	h.mu.Unlock()

	evicted := 0
	for id, v := range candidates {
		// Debouncer state is read without h.mu; delivery holds the
		// debouncer lock while it takes h.mu.
		if v.debouncer.State() != Idle {
			continue
		}

		h.mu.Lock()
		remove := h.visitors[id] == v && h.idle(v, now)
		if remove {
			delete(h.visitors, id)
		}
		h.mu.Unlock()

		if remove {
			v.debouncer.Stop()
			evicted++
		}
	}

	if evicted > 0 {
		h.logger.WithField("evicted", evicted).Debug("Evicted idle search visitors")
	}
	return evicted
}

// idle reports whether v can be evicted. Caller holds h.mu.
func (h *Hub) idle(v *visitorSearch, now time.Time) bool {
	return len(v.subscribers) == 0 && now.Sub(v.lastSeen) > h.cfg.IdleTTL
}

// Close stops every debouncer and ends every subscription
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	visitors := h.visitors
	h.visitors = make(map[string]*visitorSearch)
	for _, v := range visitors {
		for id, ch := range v.subscribers {
			delete(v.subscribers, id)
			close(ch)
		}
	}
	h.mu.Unlock()

	h.cancel()
	for _, v := range visitors {
		v.debouncer.Stop()
	}
}

// visitor returns the visitor's state, creating it. Caller holds h.mu.
func (h *Hub) visitor(visitorID string) *visitorSearch {
	if v, ok := h.visitors[visitorID]; ok {
		return v
	}

	v := &visitorSearch{
		subscribers: make(map[int]chan Result),
	}
	v.debouncer = NewDebouncer(h.ctx, h.cfg.Window, h.searcher, func(r Result) {
		h.publish(visitorID, v, r)
	}, h.opts...)
	h.visitors[visitorID] = v
	return v
}

func (h *Hub) publish(visitorID string, v *visitorSearch, r Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v.latest = &r
	for _, ch := range v.subscribers {
		select {
		case ch <- r:
		default:
			h.logger.WithField("visitor_id", visitorID).Debug("Search subscriber is behind, dropping result")
		}
	}
}
