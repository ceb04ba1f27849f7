package penguins

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/server/models"
)

// SortFields lists the accepted ListParams.SortField values.
var SortFields = []string{
	"id", "name", "species", "island",
	"beakLengthMm", "beakDepthMm", "flipperLengthMm", "bodyMassG", "sex",
}

// MemoryRepository is an in-process penguin table.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]models.Penguin
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[int64]models.Penguin)}
}

func (r *MemoryRepository) List(ctx context.Context, p models.ListParams) ([]models.Penguin, int, error) {
	compare, err := comparator(p.SortField, strings.EqualFold(p.SortDirection, "desc"))
	if err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	matched := make([]models.Penguin, 0, len(r.rows))
	for _, row := range r.rows {
		if matches(row, p) {
			matched = append(matched, row)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b models.Penguin) int {
		if c := compare(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	total := len(matched)
	if p.PageSize < 1 {
		return matched, total, nil
	}

	page := max(p.Page, 1)
	start := min((page-1)*p.PageSize, total)
	end := min(start+p.PageSize, total)

	return matched[start:end], total, nil
}

func matches(row models.Penguin, p models.ListParams) bool {
	switch g := strings.ToUpper(p.Gender); g {
	case "", "ALL":
	default:
		if row.Sex == nil || !strings.EqualFold(*row.Sex, g) {
			return false
		}
	}

	q := strings.ToLower(strings.TrimSpace(p.Search))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(row.Species), q) || strings.Contains(strings.ToLower(row.Island), q) {
		return true
	}
	return row.Name != nil && strings.Contains(strings.ToLower(*row.Name), q)
}

func ordered[T cmp.Ordered](a, b T, desc bool) int {
	if desc {
		return cmp.Compare(b, a)
	}
	return cmp.Compare(a, b)
}

// Missing measurements sort last in both directions.
func orderedPtr[T cmp.Ordered](a, b *T, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return ordered(*a, *b, desc)
}

func comparator(field string, desc bool) (func(a, b models.Penguin) int, error) {
	switch field {
	case "", "species":
		return func(a, b models.Penguin) int { return ordered(a.Species, b.Species, desc) }, nil
	case "id":
		return func(a, b models.Penguin) int { return ordered(a.ID, b.ID, desc) }, nil
	case "name":
		return func(a, b models.Penguin) int { return orderedPtr(a.Name, b.Name, desc) }, nil
	case "island":
		return func(a, b models.Penguin) int { return ordered(a.Island, b.Island, desc) }, nil
	case "beakLengthMm":
		return func(a, b models.Penguin) int { return orderedPtr(a.BeakLengthMm, b.BeakLengthMm, desc) }, nil
	case "beakDepthMm":
		return func(a, b models.Penguin) int { return orderedPtr(a.BeakDepthMm, b.BeakDepthMm, desc) }, nil
	case "flipperLengthMm":
		return func(a, b models.Penguin) int { return orderedPtr(a.FlipperLengthMm, b.FlipperLengthMm, desc) }, nil
	case "bodyMassG":
		return func(a, b models.Penguin) int { return orderedPtr(a.BodyMassG, b.BodyMassG, desc) }, nil
	case "sex":
		return func(a, b models.Penguin) int { return orderedPtr(a.Sex, b.Sex, desc) }, nil
	}
	return nil, fmt.Errorf("%w: unknown sort field %q", common.ErrValidation, field)
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (*models.Penguin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &row, nil
}

func (r *MemoryRepository) Create(ctx context.Context, p models.Penguin) (*models.Penguin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p.ID = r.nextID
	r.rows[p.ID] = p

	return &p, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id int64, fn func(models.Penguin) (models.Penguin, error)) (*models.Penguin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	updated, err := fn(row)
	if err != nil {
		return nil, err
	}
	updated.ID = id
	r.rows[id] = updated

	return &updated, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, id)
	return nil
}
