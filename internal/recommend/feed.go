package recommend

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bhanu79755/Shopbuy/internal/domain"
)

// DefaultDebounce is how long a feed waits after the last history change
// before fetching.
const DefaultDebounce = 500 * time.Millisecond

// FetchFunc produces recommendations for a browsing history. It must honour
// ctx cancellation.
type FetchFunc func(ctx context.Context, history []domain.Product) []domain.AiProduct

// FeedSnapshot is what a feed currently shows.
type FeedSnapshot struct {
	Items    []domain.AiProduct `json:"items"`
	Pending  bool               `json:"pending"`
	Sequence uint64             `json:"sequence"`
}

// Feed keeps one session's "inspired by your browsing history" list. History
// changes are debounced; only the most recently dispatched fetch may update
// the list.
type Feed struct {
	fetch  FetchFunc
	delay  time.Duration
	logger *slog.Logger

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu         sync.Mutex
	seq        uint64 // bumped on every Notify
	dispatched uint64 // sequence of the latest fetch started
	applied    uint64 // sequence whose result is in items
	timer      *time.Timer
	cancel     context.CancelFunc
	items      []domain.AiProduct
	pending    bool
	closed     bool
}

// NewFeed creates a feed. A non-positive delay uses DefaultDebounce.
func NewFeed(fetch FetchFunc, delay time.Duration, logger *slog.Logger) *Feed {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Feed{
		fetch:  fetch,
		delay:  delay,
		logger: logger,
		ctx:    ctx,
		stop:   stop,
		items:  []domain.AiProduct{},
	}
}

// Notify records a history change and (re)arms the debounce timer. An empty
// history clears the list without fetching.
func (f *Feed) Notify(history []domain.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	f.seq++
	seq := f.seq
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}

	if len(history) == 0 {
		f.cancelInflight()
		f.items = []domain.AiProduct{}
		f.applied = seq
		f.pending = false
		return
	}

	f.pending = true
	snapshot := domain.CloneProducts(history)
	f.timer = time.AfterFunc(f.delay, func() {
		f.dispatch(seq, snapshot)
	})
}

func (f *Feed) dispatch(seq uint64, history []domain.Product) {
	f.mu.Lock()
	if f.closed || seq != f.seq {
		f.mu.Unlock()
		return
	}
	f.cancelInflight()
	ctx, cancel := context.WithCancel(f.ctx)
	f.cancel = cancel
	f.dispatched = seq
	f.timer = nil
	f.wg.Add(1)
	f.mu.Unlock()

	defer f.wg.Done()
	defer cancel()

	items := f.fetch(ctx, history)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || seq != f.dispatched {
		f.logger.Debug("discarding stale recommendations",
			slog.Uint64("sequence", seq),
			slog.Uint64("latest", f.dispatched),
		)
		return
	}
	if items == nil {
		items = []domain.AiProduct{}
	}
	f.items = items
	f.applied = seq
	f.pending = f.seq != seq
	f.cancel = nil
}

// cancelInflight must be called with mu held.
func (f *Feed) cancelInflight() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// Snapshot returns the latest applied recommendations.
func (f *Feed) Snapshot() FeedSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]domain.AiProduct, len(f.items))
	copy(items, f.items)
	return FeedSnapshot{Items: items, Pending: f.pending, Sequence: f.applied}
}

// Close stops the timer, cancels any in-flight fetch and waits for it to
// return. Further Notify calls are ignored.
func (f *Feed) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.cancelInflight()
	f.pending = false
	f.mu.Unlock()

	f.stop()
	f.wg.Wait()
}
