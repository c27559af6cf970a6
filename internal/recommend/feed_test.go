package recommend

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	"github.com/bhanu79755/Shopbuy/pkg/logger"
)

const testDebounce = 20 * time.Millisecond

func history(ids ...int64) []domain.Product {
	out := make([]domain.Product, len(ids))
	for i, id := range ids {
		out[i] = domain.Product{ID: id}
	}
	return out
}

func named(name string) []domain.AiProduct {
	return []domain.AiProduct{{Name: name}}
}

func TestFeed_DebounceCollapsesRapidChanges(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var fetches atomic.Int32
	var lastLen atomic.Int32
	f := NewFeed(func(_ context.Context, h []domain.Product) []domain.AiProduct {
		fetches.Add(1)
		lastLen.Store(int32(len(h)))
		return named("lamp")
	}, testDebounce, logger.Discard())
	defer f.Close()

	f.Notify(history(1))
	f.Notify(history(2, 1))
	f.Notify(history(3, 2, 1))
	assert.True(t, f.Snapshot().Pending)

	require.Eventually(t, func() bool { return !f.Snapshot().Pending }, time.Second, 5*time.Millisecond)

	snap := f.Snapshot()
	assert.Equal(t, named("lamp"), snap.Items)
	assert.Equal(t, uint64(3), snap.Sequence)
	assert.Equal(t, int32(1), fetches.Load())
	assert.Equal(t, int32(3), lastLen.Load())
}

func TestFeed_EmptyHistoryNeverDispatches(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var fetches atomic.Int32
	f := NewFeed(func(context.Context, []domain.Product) []domain.AiProduct {
		fetches.Add(1)
		return nil
	}, testDebounce, logger.Discard())
	defer f.Close()

	f.Notify(nil)
	time.Sleep(3 * testDebounce)

	snap := f.Snapshot()
	assert.False(t, snap.Pending)
	assert.Empty(t, snap.Items)
	assert.Zero(t, fetches.Load())
}

func TestFeed_LatestWins(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	firstStarted := make(chan struct{})
	var firstCtx context.Context
	var mu sync.Mutex

	f := NewFeed(func(ctx context.Context, h []domain.Product) []domain.AiProduct {
		if len(h) == 1 {
			mu.Lock()
			firstCtx = ctx
			mu.Unlock()
			close(firstStarted)
			<-ctx.Done()
			return named("stale")
		}
		return named("fresh")
	}, testDebounce, logger.Discard())
	defer f.Close()

	f.Notify(history(1))
	select {
	case <-firstStarted:
	case <-time.After(time.Second):
		t.Fatal("first fetch never started")
	}

	f.Notify(history(2, 1))

	require.Eventually(t, func() bool {
		s := f.Snapshot()
		return len(s.Items) == 1 && s.Items[0].Name == "fresh"
	}, time.Second, 5*time.Millisecond)

	snap := f.Snapshot()
	assert.False(t, snap.Pending)
	assert.Equal(t, uint64(2), snap.Sequence)

	mu.Lock()
	defer mu.Unlock()
	assert.ErrorIs(t, firstCtx.Err(), context.Canceled)
}

func TestFeed_StaleResultDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	release := make(chan struct{})
	started := make(chan struct{}, 2)
	f := NewFeed(func(ctx context.Context, h []domain.Product) []domain.AiProduct {
		started <- struct{}{}
		if len(h) == 1 {
			// Ignores cancellation and answers late.
			<-release
			return named("stale")
		}
		return named("fresh")
	}, testDebounce, logger.Discard())
	defer f.Close()

	f.Notify(history(1))
	<-started
	f.Notify(history(2, 1))
	<-started

	require.Eventually(t, func() bool {
		s := f.Snapshot()
		return len(s.Items) == 1 && s.Items[0].Name == "fresh"
	}, time.Second, 5*time.Millisecond)

	close(release)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, named("fresh"), f.Snapshot().Items)
}

func TestFeed_CloseCancelsInflightAndIgnoresNotify(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	started := make(chan struct{})
	var cancelled atomic.Bool
	var fetches atomic.Int32
	f := NewFeed(func(ctx context.Context, _ []domain.Product) []domain.AiProduct {
		if fetches.Add(1) == 1 {
			close(started)
		}
		<-ctx.Done()
		cancelled.Store(true)
		return nil
	}, testDebounce, logger.Discard())

	f.Notify(history(1))
	<-started

	f.Close()
	assert.True(t, cancelled.Load())

	f.Notify(history(2, 1))
	time.Sleep(3 * testDebounce)
	assert.Equal(t, int32(1), fetches.Load())
	assert.False(t, f.Snapshot().Pending)

	f.Close()
}

func TestFeed_CloseStopsPendingTimer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var fetches atomic.Int32
	f := NewFeed(func(context.Context, []domain.Product) []domain.AiProduct {
		fetches.Add(1)
		return nil
	}, testDebounce, logger.Discard())

	f.Notify(history(1))
	f.Close()
	time.Sleep(3 * testDebounce)

	assert.Zero(t, fetches.Load())
}

func TestNewFeed_DefaultDelay(t *testing.T) {
	f := NewFeed(func(context.Context, []domain.Product) []domain.AiProduct { return nil }, 0, logger.Discard())
	defer f.Close()
	assert.Equal(t, DefaultDebounce, f.delay)
}
