package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/penguintracker/internal/client/models"
	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/logging"
)

// PenguinWriter is the part of the backend client the mutation engine uses.
type PenguinWriter interface {
	CreatePenguin(ctx context.Context, token string, in models.PenguinInput) (*models.Penguin, error)
	UpdatePenguin(ctx context.Context, token string, id int64, in models.PenguinInput) (*models.Penguin, error)
	DeletePenguin(ctx context.Context, token string, id int64) error
}

// Invalidator drops cached query results.
type Invalidator interface {
	InvalidateAll()
}

// MutationEngine writes penguin records. Every successful write drops all
// cached pages.
type MutationEngine struct {
	writer  PenguinWriter
	session SessionSource
	cache   Invalidator
	logger  logging.Logger
}

func NewMutationEngine(writer PenguinWriter, session SessionSource, cache Invalidator, logger logging.Logger) *MutationEngine {
	return &MutationEngine{
		writer:  writer,
		session: session,
		cache:   cache,
		logger:  logger.With("module", "mutation"),
	}
}

func (m *MutationEngine) token() (string, error) {
	t := m.session.AccessToken()
	if t == "" {
		return "", common.ErrNotAuthenticated
	}
	return t, nil
}

// Create validates and submits in. A write that was sent is not abandoned
// when ctx is canceled.
func (m *MutationEngine) Create(ctx context.Context, in models.PenguinInput) (*models.Penguin, error) {
	token, err := m.token()
	if err != nil {
		return nil, err
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := m.writer.CreatePenguin(context.WithoutCancel(ctx), token, in)
	if err != nil {
		return nil, fmt.Errorf("create penguin: %w", err)
	}

	m.cache.InvalidateAll()
	m.logger.Info(ctx, "penguin created", "id", p.ID)
	return p, nil
}

// Update replaces the editable fields of penguin id.
func (m *MutationEngine) Update(ctx context.Context, id int64, in models.PenguinInput) (*models.Penguin, error) {
	token, err := m.token()
	if err != nil {
		return nil, err
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := m.writer.UpdatePenguin(context.WithoutCancel(ctx), token, id, in)
	if err != nil {
		return nil, fmt.Errorf("update penguin %d: %w", id, err)
	}

	m.cache.InvalidateAll()
	m.logger.Info(ctx, "penguin updated", "id", id)
	return p, nil
}

func (m *MutationEngine) Delete(ctx context.Context, id int64) error {
	token, err := m.token()
	if err != nil {
		return err
	}

	if err := m.writer.DeletePenguin(context.WithoutCancel(ctx), token, id); err != nil {
		return fmt.Errorf("delete penguin %d: %w", id, err)
	}

	m.cache.InvalidateAll()
	m.logger.Info(ctx, "penguin deleted", "id", id)
	return nil
}
