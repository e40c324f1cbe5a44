// Package search runs people/post lookups behind a debounce.
package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"social-client/internal/backend"
	"social-client/internal/models"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	MinQueryLength  = 2
)

type Searcher interface {
	SearchAll(ctx context.Context, query string) (backend.SearchResult, error)
}

// Result is delivered once per settled query.
type Result struct {
	Query string
	backend.SearchResult
	Err error
}

func emptyResult() backend.SearchResult {
	return backend.SearchResult{Users: []models.User{}, Posts: []backend.SearchPost{}}
}

func tooShort(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLength
}

// Lookup runs a single search without debouncing. Queries shorter than
// MinQueryLength return empty results without calling api.
func Lookup(ctx context.Context, api Searcher, query string) (backend.SearchResult, error) {
	if tooShort(query) {
		return emptyResult(), nil
	}
	return api.SearchAll(ctx, strings.TrimSpace(query))
}

// Debouncer delays searches until input settles and drops results for
// queries that were superseded.
type Debouncer struct {
	api      Searcher
	delay    time.Duration
	onResult func(Result)

	mu     sync.Mutex
	seq    int
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

func NewDebouncer(api Searcher, delay time.Duration, onResult func(Result)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{api: api, delay: delay, onResult: onResult}
}

// Query replaces any pending search with query.
func (d *Debouncer) Query(query string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.seq++
	seq := d.seq
	d.stopLocked()

	if tooShort(query) {
		d.mu.Unlock()
		d.onResult(Result{Query: query, SearchResult: emptyResult()})
		return
	}
	d.timer = time.AfterFunc(d.delay, func() { d.run(seq, query) })
	d.mu.Unlock()
}

func (d *Debouncer) run(seq int, query string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d.mu.Lock()
	if d.closed || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.cancel = cancel
	d.mu.Unlock()

	res, err := Lookup(ctx, d.api, query)

	d.mu.Lock()
	stale := d.closed || seq != d.seq
	d.mu.Unlock()
	if stale {
		return
	}
	d.onResult(Result{Query: query, SearchResult: res, Err: err})
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Close cancels pending and in-flight searches. No result is delivered afterwards.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.stopLocked()
}
