package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/penguintracker/internal/client/models"
)

// Browser holds the list view state: the current query and the page count
// of the last load. Any filter or sort change goes back to page 1, and
// navigation stays within [1, TotalPages].
type Browser struct {
	engine *QueryEngine

	mu         sync.Mutex
	query      models.Query
	totalPages int
}

// NewBrowser starts at the default query. pageSize <= 0 keeps the default
// page size.
func NewBrowser(engine *QueryEngine, pageSize int) *Browser {
	q := models.DefaultQuery()
	if pageSize > 0 {
		q.PageSize = pageSize
	}
	return &Browser{engine: engine, query: q, totalPages: 1}
}

func (b *Browser) Query() models.Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

func (b *Browser) Page() int {
	return b.Query().Page
}

// TotalPages is at least 1, also before the first load and for empty
// results.
func (b *Browser) TotalPages() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totalPages
}

// update applies fn to the filter fields. A change starts over at page 1
// with an unknown page count.
func (b *Browser) update(fn func(q *models.Query)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.query
	fn(&next)
	if sameFilter(next, b.query) {
		return false
	}
	next.Page = 1
	b.query = next
	b.totalPages = 1
	return true
}

func (b *Browser) SetSearch(s string) bool {
	return b.update(func(q *models.Query) { q.SearchQuery = s })
}

func (b *Browser) SetGender(g models.Gender) bool {
	return b.update(func(q *models.Query) { q.Gender = g })
}

func (b *Browser) SetSort(field string, dir models.SortDirection) bool {
	return b.update(func(q *models.Query) {
		q.SortField = field
		q.SortDirection = dir
	})
}

// NextPage moves forward unless already on the last page.
func (b *Browser) NextPage() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.query.Page >= b.totalPages {
		return false
	}
	b.query.Page++
	return true
}

// PrevPage moves back unless already on page 1.
func (b *Browser) PrevPage() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.query.Page <= 1 {
		return false
	}
	b.query.Page--
	return true
}

// GoTo jumps to page if it is within range.
func (b *Browser) GoTo(page int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if page < 1 || page > b.totalPages {
		return false
	}
	b.query.Page = page
	return true
}

// Load fetches the current page through the query engine. When the page
// count has shrunk below the current page (e.g. after deletes) it moves to
// the last page and loads that instead.
func (b *Browser) Load(ctx context.Context) (*models.Page, error) {
	q := b.Query()
	page, err := b.engine.FetchPage(ctx, q)
	if err != nil {
		return nil, err
	}

	if last := b.record(q, page); last < q.Page {
		q.Page = last
		page, err = b.engine.FetchPage(ctx, q)
		if err != nil {
			return nil, err
		}
		b.record(q, page)
	}
	return page, nil
}

// Refresh goes back to page 1 and refetches it, bypassing the cache.
func (b *Browser) Refresh(ctx context.Context) (*models.Page, error) {
	b.mu.Lock()
	b.query.Page = 1
	q := b.query
	b.mu.Unlock()

	page, err := b.engine.Refresh(ctx, q)
	if err != nil {
		return nil, err
	}
	b.record(q, page)
	return page, nil
}

// Snapshot is the engine's view of the current query.
func (b *Browser) Snapshot() Snapshot {
	return b.engine.Peek(b.Query())
}

// record stores the page count if the filter is still the one q was
// fetched with, and pulls the current page back into range.
func (b *Browser) record(q models.Query, page *models.Page) int {
	total := max(page.TotalPages, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	if sameFilter(b.query, q) {
		b.totalPages = total
		if b.query.Page > total {
			b.query.Page = total
		}
	}
	return total
}

func sameFilter(a, b models.Query) bool {
	a.Page, b.Page = 0, 0
	return a == b
}
