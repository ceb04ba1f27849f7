package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/server/models"
	"github.com/dmitrijs2005/penguintracker/internal/server/repositories/penguins"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type PenguinService struct {
	repo penguins.Repository
}

func NewPenguinService(repo penguins.Repository) *PenguinService {
	return &PenguinService{repo: repo}
}

func (s *PenguinService) List(ctx context.Context, p models.ListParams) (*models.PenguinPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		return nil, invalid("pageSize must be between 1 and %d", maxPageSize)
	}

	switch strings.ToUpper(p.Gender) {
	case "", "ALL", "MALE", "FEMALE":
	default:
		return nil, invalid("Unknown gender %q", p.Gender)
	}

	switch strings.ToLower(p.SortDirection) {
	case "", "asc", "desc":
	default:
		return nil, invalid("Unknown sort direction %q", p.SortDirection)
	}

	if p.SortField != "" && !slices.Contains(penguins.SortFields, p.SortField) {
		return nil, invalid("Unknown sort field %q", p.SortField)
	}

	rows, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("list penguins: %w", err)
	}

	return &models.PenguinPage{
		Penguins:   rows,
		TotalCount: total,
		TotalPages: (total + p.PageSize - 1) / p.PageSize,
	}, nil
}

func (s *PenguinService) Create(ctx context.Context, patch models.PenguinPatch) (*models.Penguin, error) {
	p := normalize(patch.Apply(models.Penguin{}))
	if err := validate(p); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create penguin: %w", err)
	}
	return created, nil
}

func (s *PenguinService) Update(ctx context.Context, id int64, patch models.PenguinPatch) (*models.Penguin, error) {
	updated, err := s.repo.Update(ctx, id, func(row models.Penguin) (models.Penguin, error) {
		next := normalize(patch.Apply(row))
		if err := validate(next); err != nil {
			return row, err
		}
		return next, nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, notFound("Penguin")
		}
		return nil, err
	}
	return updated, nil
}

func (s *PenguinService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return notFound("Penguin")
		}
		return fmt.Errorf("delete penguin: %w", err)
	}
	return nil
}

func normalize(p models.Penguin) models.Penguin {
	p.Species = strings.TrimSpace(p.Species)
	p.Island = strings.TrimSpace(p.Island)
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			p.Name = nil
		} else {
			p.Name = &name
		}
	}
	if p.Sex != nil {
		sex := strings.ToUpper(*p.Sex)
		p.Sex = &sex
	}
	return p
}

func validate(p models.Penguin) error {
	switch {
	case p.Species == "":
		return invalid("species is required")
	case p.Island == "":
		return invalid("island is required")
	case p.Sex != nil && *p.Sex != "MALE" && *p.Sex != "FEMALE":
		return invalid("sex must be MALE or FEMALE")
	}

	for field, v := range map[string]*float64{
		"beakLengthMm":    p.BeakLengthMm,
		"beakDepthMm":     p.BeakDepthMm,
		"flipperLengthMm": p.FlipperLengthMm,
		"bodyMassG":       p.BodyMassG,
	} {
		if v != nil && *v <= 0 {
			return invalid("%s must be positive", field)
		}
	}
	return nil
}
