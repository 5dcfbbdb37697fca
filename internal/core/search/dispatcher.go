// Package search debounces query input and dispatches categorized catalog
// searches.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/colonyops/powerbar/internal/core/logging"
	"github.com/colonyops/powerbar/internal/core/suggest"
	"github.com/rs/zerolog"
)

const (
	// MinQueryLength is the shortest trimmed query, in runes, that dispatches
	// a search.
	MinQueryLength = 2
	// DefaultDelay is the quiet period after the last keystroke before a
	// search is issued.
	DefaultDelay = 300 * time.Millisecond
	// DefaultLimit is the number of results requested per category.
	DefaultLimit = 3
)

// Searcher runs a single catalog search and returns raw results keyed by
// category.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (map[suggest.Category][]suggest.Item, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string, limit int) (map[suggest.Category][]suggest.Item, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, query string, limit int) (map[suggest.Category][]suggest.Item, error) {
	return f(ctx, query, limit)
}

// Outcome describes what Submit did with a query value.
type Outcome int

const (
	// OutcomeCleared means the query was too short; pending work was dropped
	// and the caller should clear its suggestions.
	OutcomeCleared Outcome = iota
	// OutcomeDuplicate means the query equals the last scheduled one.
	OutcomeDuplicate
	// OutcomeScheduled means a debounced search is pending.
	OutcomeScheduled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCleared:
		return "cleared"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeScheduled:
		return "scheduled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Elapsed is signalled when a debounce window closes. Gen identifies the
// timer that produced it.
type Elapsed struct {
	Gen uint64
}

// Request is a search ready to run.
type Request struct {
	Seq   uint64
	Query string
	Limit int
}

// Response is the outcome of running a Request.
type Response struct {
	Request
	Result suggest.Result
	Err    error
}

// Options configures a Dispatcher. Zero values select the defaults.
type Options struct {
	Delay time.Duration
	Limit int
	Clock Clock
}

// Dispatcher turns a stream of query edits into at most one search per quiet
// period. Submit, Fire, Accept and Reset must be called from a single
// goroutine; Run may be called from any goroutine.
type Dispatcher struct {
	searcher Searcher
	clock    Clock
	delay    time.Duration
	limit    int
	log      zerolog.Logger

	elapsed chan Elapsed

	timer   Timer
	stop    chan struct{}
	gen     uint64
	pending string
	last    string
	seq     uint64
}

// New creates a Dispatcher that searches with s.
func New(s Searcher, opts Options) *Dispatcher {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}

	return &Dispatcher{
		searcher: s,
		clock:    opts.Clock,
		delay:    opts.Delay,
		limit:    opts.Limit,
		log:      logging.Component("search"),
		elapsed:  make(chan Elapsed, 1),
	}
}

// Elapsed returns the channel on which debounce expirations are signalled.
// Only the most recent expiration is retained.
func (d *Dispatcher) Elapsed() <-chan Elapsed { return d.elapsed }

// Limit returns the per-category result limit used for new requests.
func (d *Dispatcher) Limit() int { return d.limit }

// SetLimit changes the per-category limit. The next query is always
// dispatched, even when its text equals the last one.
func (d *Dispatcher) SetLimit(n int) {
	if n <= 0 || n == d.limit {
		return
	}
	d.limit = n
	d.last = ""
}

// SetDelay changes the debounce window for subsequent submissions.
func (d *Dispatcher) SetDelay(delay time.Duration) {
	if delay > 0 {
		d.delay = delay
	}
}

// Submit records the latest query value.
func (d *Dispatcher) Submit(raw string) Outcome {
	q := strings.TrimSpace(raw)
	if utf8.RuneCountInString(q) < MinQueryLength {
		d.Reset()
		return OutcomeCleared
	}

	if q == d.last {
		return OutcomeDuplicate
	}

	d.stopTimer()
	d.gen++
	d.pending = q
	d.last = q
	d.startTimer(d.gen)

	d.log.Debug().Str("query", q).Uint64("gen", d.gen).Msg("search scheduled")
	return OutcomeScheduled
}

// Fire converts an expiration into a request for the latest query. It
// returns false when the expiration belongs to a superseded timer.
func (d *Dispatcher) Fire(e Elapsed) (Request, bool) {
	if e.Gen != d.gen || d.pending == "" {
		return Request{}, false
	}

	d.seq++
	req := Request{Seq: d.seq, Query: d.pending, Limit: d.limit}
	d.pending = ""
	d.timer = nil
	d.stop = nil

	d.log.Debug().Str("query", req.Query).Uint64("seq", req.Seq).Msg("search issued")
	return req, true
}

// Run executes req against the searcher and categorizes the result.
func (d *Dispatcher) Run(ctx context.Context, req Request) Response {
	ctx = logging.WithSeq(logging.WithQuery(ctx, req.Query), req.Seq)

	raw, err := d.searcher.Search(ctx, req.Query, req.Limit)
	if err != nil {
		d.log.Warn().Ctx(ctx).Err(err).Msg("search failed")
		return Response{Request: req, Err: fmt.Errorf("search %q: %w", req.Query, err)}
	}
	return Response{Request: req, Result: suggest.NewResult(raw)}
}

// Accept reports whether resp answers the most recently issued request.
func (d *Dispatcher) Accept(resp Response) bool {
	ok := resp.Seq == d.seq
	if !ok {
		d.log.Debug().Uint64("seq", resp.Seq).Uint64("latest", d.seq).Msg("stale response dropped")
	}
	return ok
}

// Forget drops query as the remembered value so resubmitting it schedules a
// new request. Used after a failed search.
func (d *Dispatcher) Forget(query string) {
	if d.last == query {
		d.last = ""
	}
}

// Reset stops any pending timer, forgets the last query and invalidates all
// in-flight requests.
func (d *Dispatcher) Reset() {
	d.stopTimer()
	d.gen++
	d.pending = ""
	d.last = ""
	d.seq++
}

func (d *Dispatcher) startTimer(gen uint64) {
	t := d.clock.NewTimer(d.delay)
	stop := make(chan struct{})
	d.timer = t
	d.stop = stop

	go func() {
		select {
		case <-t.C():
			d.signal(Elapsed{Gen: gen})
		case <-stop:
		}
	}()
}

func (d *Dispatcher) stopTimer() {
	if d.timer == nil {
		return
	}
	d.timer.Stop()
	close(d.stop)
	d.timer = nil
	d.stop = nil
}

// signal delivers e, replacing any expiration that has not been consumed.
func (d *Dispatcher) signal(e Elapsed) {
	for {
		select {
		case d.elapsed <- e:
			return
		default:
		}
		select {
		case <-d.elapsed:
		default:
		}
	}
}
