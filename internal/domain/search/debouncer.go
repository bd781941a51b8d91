// Package search implements search-as-you-type: input is debounced per
// visitor and results are fanned out to that visitor's subscribers.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/BeingRelentless/QKart-Shopping/internal/domain/product"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/backend"
	"github.com/BeingRelentless/QKart-Shopping/internal/pkg/metrics"
)

// State of a Debouncer
type State int

const (
	Idle State = iota
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Searcher runs catalog queries
type Searcher interface {
	List(ctx context.Context) ([]product.Product, error)
	Search(ctx context.Context, query string) ([]product.Product, error)
}

// Recorder counts search outcomes
type Recorder interface {
	RecordSearch(outcome string)
}

// Timer is a scheduled call that can be cancelled
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Result is the outcome of one fired search
type Result struct {
	Seq      uint64            `json:"seq"`
	Query    string            `json:"query"`
	Products []product.Product `json:"products"`
	Error    string            `json:"error,omitempty"`
	At       time.Time         `json:"at"`
}

// Option configures a Debouncer
type Option func(*Debouncer)

// WithAfterFunc replaces the timer source
func WithAfterFunc(f AfterFunc) Option {
	return func(d *Debouncer) {
		d.afterFunc = f
	}
}

// WithRecorder records fired and stale searches
func WithRecorder(r Recorder) Option {
	return func(d *Debouncer) {
		d.recorder = r
	}
}

// Debouncer coalesces rapid input into one search per quiescence window.
// At most one timer is live; new input cancels it. A fired search is not
// cancelled by later input, but its result is dropped if a newer one was
// already delivered.
type Debouncer struct {
	mu        sync.Mutex
	window    time.Duration
	searcher  Searcher
	deliver   func(Result)
	afterFunc AfterFunc
	recorder  Recorder

	timer     Timer
	seq       uint64
	delivered uint64
	stopped   bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewDebouncer creates a Debouncer. deliver is called with the debouncer
// locked, in sequence order, and must not block.
func NewDebouncer(parent context.Context, window time.Duration, searcher Searcher, deliver func(Result), opts ...Option) *Debouncer {
	ctx, cancel := context.WithCancel(parent)
	d := &Debouncer{
		window:    window,
		searcher:  searcher,
		deliver:   deliver,
		afterFunc: realAfterFunc,
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnInput replaces any pending search with one for text
func (d *Debouncer) OnInput(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.timer = d.afterFunc(d.window, func() {
		d.fire(seq, text)
	})
}

// State reports whether a search is scheduled
func (d *Debouncer) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		return Pending
	}
	return Idle
}

// Stop cancels the pending timer and aborts in-flight searches
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.cancel()
}

func (d *Debouncer) fire(seq uint64, text string) {
	d.mu.Lock()
	// A timer that lost its race with Stop or OnInput must not run.
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	ctx := d.ctx
	d.mu.Unlock()

	result := d.run(ctx, seq, text)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if seq <= d.delivered {
		d.record(metrics.SearchStale)
		return
	}
	d.delivered = seq
	d.deliver(result)
}

func (d *Debouncer) run(ctx context.Context, seq uint64, text string) Result {
	result := Result{Seq: seq, Query: text}

	var (
		products []product.Product
		err      error
	)
	// Blank input lists everything; anything else goes out verbatim.
	if strings.TrimSpace(text) == "" {
		products, err = d.searcher.List(ctx)
	} else {
		products, err = d.searcher.Search(ctx, text)
	}

	result.At = time.Now()
	if err != nil {
		d.record(metrics.SearchError)
		result.Products = []product.Product{}
		result.Error = errorMessage(err)
		return result
	}

	d.record(metrics.SearchFired)
	if products == nil {
		products = []product.Product{}
	}
	result.Products = products
	return result
}

func (d *Debouncer) record(outcome string) {
	if d.recorder != nil {
		d.recorder.RecordSearch(outcome)
	}
}

// GenericErrorMessage is shown when a failure has no backend message
const GenericErrorMessage = "Something went wrong. Please try again."

func errorMessage(err error) string {
	if re, ok := backend.AsRemote(err); ok {
		return re.Message
	}
	return GenericErrorMessage
}
