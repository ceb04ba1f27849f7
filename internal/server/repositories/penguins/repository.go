package penguins

import (
	"context"

	"github.com/dmitrijs2005/penguintracker/internal/server/models"
)

type Repository interface {
	// List applies filter, sort and pagination. The returned total is the
	// number of matches before pagination.
	List(ctx context.Context, p models.ListParams) ([]models.Penguin, int, error)
	Get(ctx context.Context, id int64) (*models.Penguin, error)
	// Create assigns the id.
	Create(ctx context.Context, p models.Penguin) (*models.Penguin, error)
	// Update replaces the stored record with fn's result atomically.
	Update(ctx context.Context, id int64, fn func(models.Penguin) (models.Penguin, error)) (*models.Penguin, error)
	Delete(ctx context.Context, id int64) error
}
