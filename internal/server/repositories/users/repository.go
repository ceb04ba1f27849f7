package users

import (
	"context"

	"github.com/dmitrijs2005/penguintracker/internal/server/models"
)

type Repository interface {
	// Create assigns the id. A taken email yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
