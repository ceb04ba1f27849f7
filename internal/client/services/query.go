package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/penguintracker/internal/client/models"
	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/logging"
	"golang.org/x/sync/singleflight"
)

// CacheStatus describes one cache entry.
type CacheStatus int

const (
	// StatusIdle: nothing cached and nothing in flight.
	StatusIdle CacheStatus = iota
	// StatusLoading: first fetch in flight, no data yet.
	StatusLoading
	// StatusRefreshing: fetch in flight, previous data still served.
	StatusRefreshing
	StatusReady
	// StatusError: last fetch failed. Data from an earlier success, if any,
	// is kept.
	StatusError
)

func (s CacheStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusRefreshing:
		return "refreshing"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("CacheStatus(%d)", int(s))
}

// Snapshot is a point-in-time view of a cache entry.
type Snapshot struct {
	Page      *models.Page
	Status    CacheStatus
	Err       error
	FetchedAt time.Time
}

// PageFetcher is the part of the backend client the query engine uses.
type PageFetcher interface {
	ListPenguins(ctx context.Context, token string, q models.Query) (*models.Page, error)
}

type cacheEntry struct {
	flight    string
	page      *models.Page
	err       error
	status    CacheStatus
	fetchedAt time.Time
}

// QueryEngine fetches penguin pages and caches them per normalized
// models.Query. Concurrent requests for the same key share one backend
// call. Cached pages live until invalidated or refreshed.
type QueryEngine struct {
	fetcher PageFetcher
	session SessionSource
	logger  logging.Logger
	now     func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	seq     uint64
	entries map[models.Query]*cacheEntry
}

func NewQueryEngine(fetcher PageFetcher, session SessionSource, logger logging.Logger) *QueryEngine {
	return &QueryEngine{
		fetcher: fetcher,
		session: session,
		logger:  logger.With("module", "query"),
		now:     time.Now,
		entries: make(map[models.Query]*cacheEntry),
	}
}

// FetchPage returns the cached page for q or fetches it. While q is being
// refreshed the previous page is returned right away. If the caller's
// ctx ends first, FetchPage returns ctx.Err() but the shared fetch goes on
// and still fills the cache.
func (e *QueryEngine) FetchPage(ctx context.Context, q models.Query) (*models.Page, error) {
	return e.fetch(ctx, q.Normalize(), false)
}

// Refresh refetches q even if it is cached. Until it resolves, Peek keeps
// returning the old page with StatusRefreshing. On failure the old page is
// kept and the error recorded.
func (e *QueryEngine) Refresh(ctx context.Context, q models.Query) (*models.Page, error) {
	return e.fetch(ctx, q.Normalize(), true)
}

func (e *QueryEngine) fetch(ctx context.Context, q models.Query, force bool) (*models.Page, error) {
	token := e.session.AccessToken()
	if token == "" {
		return nil, common.ErrNotAuthenticated
	}

	e.mu.Lock()
	entry, ok := e.entries[q]
	if ok && !force && entry.page != nil &&
		(entry.status == StatusReady || entry.status == StatusRefreshing) {
		page, status := entry.page, entry.status
		e.mu.Unlock()
		e.logger.Debug(ctx, "cache hit", "page", q.Page, "search", q.SearchQuery, "status", status)
		return page, nil
	}
	if !ok {
		e.seq++
		entry = &cacheEntry{flight: strconv.FormatUint(e.seq, 10)}
		e.entries[q] = entry
	}
	switch entry.status {
	case StatusLoading, StatusRefreshing:
		// join the fetch in flight
	default:
		if entry.page != nil {
			entry.status = StatusRefreshing
		} else {
			entry.status = StatusLoading
		}
	}
	e.mu.Unlock()

	ch := e.group.DoChan(entry.flight, func() (any, error) {
		page, err := e.fetcher.ListPenguins(context.WithoutCancel(ctx), token, q)
		e.settle(q, entry, page, err)
		return page, err
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			e.logger.Debug(ctx, "fetch coalesced", "page", q.Page, "search", q.SearchQuery)
		}
		return res.Val.(*models.Page), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// settle records a finished fetch unless the entry was invalidated while
// the fetch was in flight.
func (e *QueryEngine) settle(q models.Query, entry *cacheEntry, page *models.Page, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.entries[q] != entry {
		return
	}
	if err != nil {
		entry.err = err
		entry.status = StatusError
		return
	}
	entry.page = page
	entry.err = nil
	entry.status = StatusReady
	entry.fetchedAt = e.now()
}

// Peek reports the cache entry for q without fetching.
func (e *QueryEngine) Peek(q models.Query) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.entries[q.Normalize()]
	if !ok {
		return Snapshot{Status: StatusIdle}
	}
	return Snapshot{
		Page:      entry.page,
		Status:    entry.status,
		Err:       entry.err,
		FetchedAt: entry.fetchedAt,
	}
}

// Invalidate drops the entry for q.
func (e *QueryEngine) Invalidate(q models.Query) {
	e.mu.Lock()
	delete(e.entries, q.Normalize())
	e.mu.Unlock()
}

// InvalidateAll drops every cached page.
func (e *QueryEngine) InvalidateAll() {
	e.mu.Lock()
	n := len(e.entries)
	e.entries = make(map[models.Query]*cacheEntry)
	e.mu.Unlock()

	e.logger.Debug(context.Background(), "cache invalidated", "entries", n)
}
