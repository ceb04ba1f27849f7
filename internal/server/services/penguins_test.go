package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/server/models"
	"github.com/dmitrijs2005/penguintracker/internal/server/repositories/penguins"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patchOf(t *testing.T, body string) models.PenguinPatch {
	t.Helper()
	var p models.PenguinPatch
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func seededPenguinService(t *testing.T) *PenguinService {
	t.Helper()
	repo := penguins.NewMemoryRepository()
	require.NoError(t, penguins.Seed(context.Background(), repo))
	return NewPenguinService(repo)
}

func TestPenguinService_ListDefaultsAndTotals(t *testing.T) {
	s := seededPenguinService(t)

	page, err := s.List(context.Background(), models.ListParams{})
	require.NoError(t, err)
	assert.Len(t, page.Penguins, defaultPageSize)
	assert.Equal(t, penguins.SampleSize, page.TotalCount)
	assert.Equal(t, (penguins.SampleSize+9)/10, page.TotalPages)
}

func TestPenguinService_ListEmptyHasZeroPages(t *testing.T) {
	s := seededPenguinService(t)

	page, err := s.List(context.Background(), models.ListParams{Search: "emperor"})
	require.NoError(t, err)
	assert.Empty(t, page.Penguins)
	assert.Equal(t, 0, page.TotalCount)
	assert.Equal(t, 0, page.TotalPages)
}

func TestPenguinService_ListRejectsBadParams(t *testing.T) {
	s := seededPenguinService(t)
	ctx := context.Background()

	for _, p := range []models.ListParams{
		{PageSize: -1},
		{PageSize: maxPageSize + 1},
		{Gender: "OTHER"},
		{SortDirection: "up"},
		{SortField: "wingspan"},
	} {
		_, err := s.List(ctx, p)
		require.ErrorIs(t, err, common.ErrValidation, "%+v", p)
	}
}

func TestPenguinService_CreateNormalizes(t *testing.T) {
	s := NewPenguinService(penguins.NewMemoryRepository())

	p, err := s.Create(context.Background(), patchOf(t, `{"name":"  ","species":" Adelie ","island":"Dream","sex":"female","bodyMassG":3500}`))
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Nil(t, p.Name, "blank name becomes null")
	assert.Equal(t, "Adelie", p.Species)
	assert.Equal(t, "FEMALE", *p.Sex)
}

func TestPenguinService_CreateValidation(t *testing.T) {
	s := NewPenguinService(penguins.NewMemoryRepository())
	ctx := context.Background()

	for _, body := range []string{
		`{"island":"Dream"}`,
		`{"species":"Adelie"}`,
		`{"species":"Adelie","island":"Dream","sex":"X"}`,
		`{"species":"Adelie","island":"Dream","bodyMassG":-3}`,
	} {
		_, err := s.Create(ctx, patchOf(t, body))
		require.ErrorIs(t, err, common.ErrValidation, body)
	}
}

func TestPenguinService_UpdateAndDelete(t *testing.T) {
	s := NewPenguinService(penguins.NewMemoryRepository())
	ctx := context.Background()

	p, err := s.Create(ctx, patchOf(t, `{"name":"Pingu","species":"Adelie","island":"Dream"}`))
	require.NoError(t, err)

	updated, err := s.Update(ctx, p.ID, patchOf(t, `{"island":"Biscoe","name":null}`))
	require.NoError(t, err)
	assert.Equal(t, "Biscoe", updated.Island)
	assert.Nil(t, updated.Name)

	_, err = s.Update(ctx, p.ID, patchOf(t, `{"species":""}`))
	require.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, s.Delete(ctx, p.ID))

	err = s.Delete(ctx, p.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.EqualError(t, err, "Penguin not found")

	_, err = s.Update(ctx, p.ID, patchOf(t, `{"island":"Dream"}`))
	require.ErrorIs(t, err, common.ErrorNotFound)
}
