package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/penguintracker/internal/client/models"
	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitFetch(t *testing.T, f *fakeFetcher) models.Query {
	t.Helper()
	select {
	case q := <-f.started:
		return q
	case <-time.After(2 * time.Second):
		t.Fatal("fetch never started")
	}
	return models.Query{}
}

func TestQueryEngine_CoalescesConcurrentFetches(t *testing.T) {
	f := newFakeFetcher()
	e := NewQueryEngine(f, staticSession("tok"), logging.Nop())
	q := models.DefaultQuery()

	var wg sync.WaitGroup
	pages := make([]*models.Page, 2)
	errs := make([]error, 2)
	fetch := func(i int) {
		defer wg.Done()
		pages[i], errs[i] = e.FetchPage(context.Background(), q)
	}

	wg.Add(1)
	go fetch(0)
	awaitFetch(t, f)
	assert.Equal(t, StatusLoading, e.Peek(q).Status)

	wg.Add(1)
	go fetch(1)
	// let the second caller join the flight
	time.Sleep(50 * time.Millisecond)

	f.results <- fetchResult{page: pageOf(1, 1, 2, 3)}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Same(t, pages[0], pages[1])
	assert.Equal(t, 1, f.callCount())
}

func TestQueryEngine_CachesUntilInvalidated(t *testing.T) {
	f := newFakeFetcher()
	e := NewQueryEngine(f, staticSession("tok"), logging.Nop())
	ctx := context.Background()

	f.results <- fetchResult{page: pageOf(1, 1)}
	p1, err := e.FetchPage(ctx, models.Query{})
	require.NoError(t, err)
	<-f.started

	// same key after normalization
	p2, err := e.FetchPage(ctx, models.DefaultQuery())
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.Equal(t, 1, f.callCount())

	snap := e.Peek(models.DefaultQuery())
	assert.Equal(t, StatusReady, snap.Status)
	assert.False(t, snap.FetchedAt.IsZero())

	e.InvalidateAll()
	assert.Equal(t, StatusIdle, e.Peek(models.DefaultQuery()).Status)

	f.results <- fetchResult{page: pageOf(1, 2)}
	p3, err := e.FetchPage(ctx, models.DefaultQuery())
	require.NoError(t, err)
	assert.True(t, p3.Contains(2))
	assert.Equal(t, 2, f.callCount())
}

func TestQueryEngine_DistinctKeys(t *testing.T) {
	f := newFakeFetcher()
	e := NewQueryEngine(f, staticSession("tok"), logging.Nop())
	ctx := context.Background()

	q1 := models.DefaultQuery()
	q2 := q1
	q2.Page = 2
	q3 := q1
	q3.Gender = models.GenderMale

	for i, q := range []models.Query{q1, q2, q3} {
		f.results <- fetchResult{page: pageOf(2, int64(i))}
		_, err := e.FetchPage(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, q, awaitFetch(t, f))
	}
	assert.Equal(t, 3, f.callCount())

	e.Invalidate(q2)
	assert.Equal(t, StatusReady, e.Peek(q1).Status)
	assert.Equal(t, StatusIdle, e.Peek(q2).Status)
	assert.Equal(t, StatusReady, e.Peek(q3).Status)
}

func TestQueryEngine_RefreshServesStaleData(t *testing.T) {
	f := newFakeFetcher()
	e := NewQueryEngine(f, staticSession("tok"), logging.Nop())
	ctx := context.Background()
	q := models.DefaultQuery()

	f.results <- fetchResult{page: pageOf(1, 1)}
	old, err := e.FetchPage(ctx, q)
	require.NoError(t, err)
	<-f.started

	done := make(chan *models.Page, 1)
	go func() {
		p, err := e.Refresh(ctx, q)
		assert.NoError(t, err)
		done <- p
	}()
	awaitFetch(t, f)

	snap := e.Peek(q)
	assert.Equal(t, StatusRefreshing, snap.Status)
	assert.Same(t, old, snap.Page)

	// plain reads keep getting the old page without a new backend call
	cached, err := e.FetchPage(ctx, q)
	require.NoError(t, err)
	assert.Same(t, old, cached)

	f.results <- fetchResult{page: pageOf(1, 1, 2)}
	fresh := <-done
	assert.True(t, fresh.Contains(2))

	snap = e.Peek(q)
	assert.Equal(t, StatusReady, snap.Status)
	assert.Same(t, fresh, snap.Page)
	assert.Equal(t, 2, f.callCount())
}

func TestQueryEngine_FailedRefreshKeepsData(t *testing.T) {
	f := newFakeFetcher()
	e := NewQueryEngine(f, staticSession("tok"), logging.Nop())
	ctx := context.Background()
	q := models.DefaultQuery()

	f.results <- fetchResult{page: pageOf(1, 1)}
	old, err := e.FetchPage(ctx, q)
	require.NoError(t, err)

	f.results <- fetchResult{err: errBoom}
	_, err = e.Refresh(ctx, q)
	require.ErrorIs(t, err, errBoom)

	snap := e.Peek(q)
	assert.Equal(t, StatusError, snap.Status)
	assert.ErrorIs(t, snap.Err, errBoom)
	assert.Same(t, old, snap.Page)

	// an errored entry is not served from cache
	f.results <- fetchResult{page: pageOf(1, 3)}
	p, err := e.FetchPage(ctx, q)
	require.NoError(t, err)
	assert.True(t, p.Contains(3))
	assert.Nil(t, e.Peek(q).Err)
	assert.Equal(t, 3, f.callCount())
}

func TestQueryEngine_FirstFetchError(t *testing.T) {
	f := newFakeFetcher()
	e := NewQueryEngine(f, staticSession("tok"), logging.Nop())

	f.results <- fetchResult{err: errBoom}
	_, err := e.FetchPage(context.Background(), models.DefaultQuery())
	require.ErrorIs(t, err, errBoom)

	snap := e.Peek(models.DefaultQuery())
	assert.Equal(t, StatusError, snap.Status)
	assert.Nil(t, snap.Page)
}

func TestQueryEngine_AbandonedFetchStillFillsCache(t *testing.T) {
	f := newFakeFetcher()
	e := NewQueryEngine(f, staticSession("tok"), logging.Nop())
	q := models.DefaultQuery()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := e.FetchPage(ctx, q)
		errc <- err
	}()
	awaitFetch(t, f)

	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)

	f.results <- fetchResult{page: pageOf(1, 9)}
	require.Eventually(t, func() bool {
		return e.Peek(q).Status == StatusReady
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, e.Peek(q).Page.Contains(9))
}

func TestQueryEngine_InvalidateDuringFlight(t *testing.T) {
	f := newFakeFetcher()
	e := NewQueryEngine(f, staticSession("tok"), logging.Nop())
	ctx := context.Background()
	q := models.DefaultQuery()

	done := make(chan *models.Page, 1)
	go func() {
		p, err := e.FetchPage(ctx, q)
		assert.NoError(t, err)
		done <- p
	}()
	awaitFetch(t, f)

	e.InvalidateAll()

	// a request after the invalidation does not join the old flight
	fresh := make(chan *models.Page, 1)
	go func() {
		p, err := e.FetchPage(ctx, q)
		assert.NoError(t, err)
		fresh <- p
	}()
	awaitFetch(t, f)

	f.results <- fetchResult{page: pageOf(1, 1)}
	f.results <- fetchResult{page: pageOf(1, 2)}
	first, second := <-done, <-fresh
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, 2, f.callCount())

	snap := e.Peek(q)
	assert.Equal(t, StatusReady, snap.Status)
	assert.Same(t, second, snap.Page)
}

func TestQueryEngine_RequiresSession(t *testing.T) {
	f := newFakeFetcher()
	e := NewQueryEngine(f, staticSession(""), logging.Nop())

	_, err := e.FetchPage(context.Background(), models.DefaultQuery())
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Zero(t, f.callCount())
}

func TestQueryEngine_AgainstBackend(t *testing.T) {
	srv := startBackend(t)
	sm, c := signedIn(t, srv.URL)
	e := NewQueryEngine(c, sm, logging.Nop())
	ctx := context.Background()

	page, err := e.FetchPage(ctx, models.DefaultQuery())
	require.NoError(t, err)
	assert.Len(t, page.Penguins, models.DefaultPageSize)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "Adelie", page.Penguins[0].Species)

	q := models.DefaultQuery()
	q.SearchQuery = "gentoo"
	q.SortField = "bodyMassG"
	q.SortDirection = models.SortDesc
	page, err = e.FetchPage(ctx, q)
	require.NoError(t, err)
	require.NotEmpty(t, page.Penguins)
	for _, p := range page.Penguins {
		assert.Equal(t, "Gentoo", p.Species)
	}
}
