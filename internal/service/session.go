package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	"github.com/bhanu79755/Shopbuy/internal/recommend"
	apperrors "github.com/bhanu79755/Shopbuy/pkg/errors"
)

var sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "storefront_sessions_active",
	Help: "Sessions currently held in memory.",
})

// Session is one shopper's cart, wishlist, browsing history and filter
// selection. Every method is atomic.
type Session struct {
	id     string
	logger *slog.Logger
	feed   *recommend.Feed

	mu       sync.Mutex
	cart     domain.Cart
	wishlist domain.Wishlist
	history  domain.History
	filters  domain.FilterState
	lastSeen time.Time
}

func newSession(id string, feed *recommend.Feed, logger *slog.Logger, now time.Time) *Session {
	return &Session{
		id:       id,
		logger:   logger.With(slog.String("session_id", id)),
		feed:     feed,
		filters:  domain.DefaultFilterState(),
		lastSeen: now,
	}
}

func (s *Session) ID() string { return s.id }

// ---------------------------------------------------------------------------
// Cart
// ---------------------------------------------------------------------------

// AddToCart adds quantity of p. quantity must be positive.
func (s *Session) AddToCart(p domain.Product, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Add(p, quantity)
}

func (s *Session) RemoveFromCart(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(id)
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
func (s *Session) UpdateQuantity(id int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.UpdateQuantity(id, quantity)
}

func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

func (s *Session) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// CartTotal is the sum of price × quantity, in cents.
func (s *Session) CartTotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalAmount()
}

func (s *Session) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// takeCart empties the cart and returns what it held. An empty cart is an
// error and is left untouched.
func (s *Session) takeCart() (domain.Cart, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart.Items) == 0 {
		return domain.Cart{}, 0, apperrors.InvalidInput("cart is empty")
	}
	snapshot := s.cart.Snapshot()
	total := s.cart.TotalAmount()
	s.cart.Clear()
	return snapshot, total, nil
}

// ---------------------------------------------------------------------------
// Wishlist
// ---------------------------------------------------------------------------

// AddToWishlist saves p. Saving twice has no effect.
func (s *Session) AddToWishlist(p domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist.Add(p)
}

func (s *Session) RemoveFromWishlist(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist.Remove(id)
}

func (s *Session) IsInWishlist(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist.Contains(id)
}

// ToggleWishlist flips p's saved state and reports the new state.
func (s *Session) ToggleWishlist(p domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist.Toggle(p)
}

func (s *Session) Wishlist() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneProducts(s.wishlist.Items)
}

// ---------------------------------------------------------------------------
// Browsing history
// ---------------------------------------------------------------------------

// AddToHistory records a product view. A change notifies the recommendation
// feed.
func (s *Session) AddToHistory(p domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.history.Add(p) {
		return false
	}
	if s.feed != nil {
		s.feed.Notify(s.history.Items)
	}
	return true
}

func (s *Session) History() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Snapshot()
}

// Recommendations returns the feed's current list.
func (s *Session) Recommendations() recommend.FeedSnapshot {
	if s.feed == nil {
		return recommend.FeedSnapshot{Items: []domain.AiProduct{}}
	}
	return s.feed.Snapshot()
}

// ---------------------------------------------------------------------------
// Filters
// ---------------------------------------------------------------------------

func (s *Session) Filters() domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

// SetCategory selects a category. nil clears it.
func (s *Session) SetCategory(category *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Category = domain.FilterState{Category: category}.Clone().Category
}

// SetPriceRange replaces the price bounds. An inverted range is kept as given
// and simply matches nothing.
func (s *Session) SetPriceRange(r domain.PriceRange) {
	if r.Inverted() {
		s.logger.Warn("price range minimum exceeds maximum",
			slog.Int64("min", *r.Min),
			slog.Int64("max", *r.Max),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.PriceRange = domain.FilterState{PriceRange: r}.Clone().PriceRange
}

// SetSortOrder changes the order. Unknown orders are rejected.
func (s *Session) SetSortOrder(order domain.SortOrder) error {
	parsed, err := domain.ParseSortOrder(string(order))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.SortOrder = parsed
	return nil
}

// SetFilters replaces the whole selection after validating the sort order.
func (s *Session) SetFilters(f domain.FilterState) error {
	order, err := domain.ParseSortOrder(string(f.SortOrder))
	if err != nil {
		return err
	}
	f.SortOrder = order
	if f.PriceRange.Inverted() {
		s.logger.Warn("price range minimum exceeds maximum",
			slog.Int64("min", *f.PriceRange.Min),
			slog.Int64("max", *f.PriceRange.Max),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f.Clone()
	return nil
}

// ClearFilters resets to no category, no bounds and default order.
func (s *Session) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = domain.DefaultFilterState()
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// SessionStore hands out sessions by ID, creating them on first use, and
// evicts sessions that have been idle longer than the TTL.
type SessionStore struct {
	fetch    recommend.FetchFunc
	debounce time.Duration
	idleTTL  time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates a store. fetch backs every session's
// recommendation feed; nil disables feeds.
func NewSessionStore(fetch recommend.FetchFunc, debounce, idleTTL time.Duration, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		fetch:    fetch,
		debounce: debounce,
		idleTTL:  idleTTL,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating an empty one if needed.
func (st *SessionStore) Get(id string) *Session {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[id]; ok {
		s.mu.Lock()
		s.lastSeen = now
		s.mu.Unlock()
		return s
	}

	var feed *recommend.Feed
	if st.fetch != nil {
		feed = recommend.NewFeed(st.fetch, st.debounce, st.logger.With(slog.String("session_id", id)))
	}
	s := newSession(id, feed, st.logger, now)
	st.sessions[id] = s
	sessionsActive.Inc()

	st.logger.Debug("session created", slog.String("session_id", id))
	return s
}

// Len reports how many sessions are held.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// EvictIdle removes sessions not seen within the idle TTL and closes their
// feeds. It returns how many were removed.
func (st *SessionStore) EvictIdle() int {
	cutoff := st.now().Add(-st.idleTTL)

	st.mu.Lock()
	var idle []*Session
	for id, s := range st.sessions {
		s.mu.Lock()
		seen := s.lastSeen
		s.mu.Unlock()
		if seen.Before(cutoff) {
			idle = append(idle, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range idle {
		if s.feed != nil {
			s.feed.Close()
		}
		sessionsActive.Dec()
	}
	if len(idle) > 0 {
		st.logger.Info("evicted idle sessions", slog.Int("count", len(idle)))
	}
	return len(idle)
}

// RunJanitor evicts idle sessions periodically until ctx is done.
func (st *SessionStore) RunJanitor(ctx context.Context) {
	interval := max(st.idleTTL/2, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.EvictIdle()
		}
	}
}

// Close drops every session and closes their feeds.
func (st *SessionStore) Close() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range sessions {
		if s.feed != nil {
			s.feed.Close()
		}
		sessionsActive.Dec()
	}
}
