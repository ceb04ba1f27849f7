package client

import (
	"context"

	"github.com/dmitrijs2005/penguintracker/internal/client/models"
)

// Client is the transport contract between the client services and the
// penguin backend. token is the bearer access token of the current session;
// the auth calls do not take one.
type Client interface {
	Close() error
	Login(ctx context.Context, creds models.Credentials) (*models.Session, error)
	Register(ctx context.Context, in models.RegisterInput) (*models.Session, error)
	Ping(ctx context.Context) error
	ListPenguins(ctx context.Context, token string, q models.Query) (*models.Page, error)
	CreatePenguin(ctx context.Context, token string, in models.PenguinInput) (*models.Penguin, error)
	UpdatePenguin(ctx context.Context, token string, id int64, in models.PenguinInput) (*models.Penguin, error)
	DeletePenguin(ctx context.Context, token string, id int64) error
}
