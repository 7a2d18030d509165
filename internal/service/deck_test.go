package service

import (
	"context"
	"testing"

	"CardForge/internal/model"
	"CardForge/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckService_Create(t *testing.T) {
	svc := NewDeckService(newTestStore(t), nil)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		d, err := svc.Create(ctx, "  Verbs ", "composition")
		require.NoError(t, err)
		assert.Equal(t, "Verbs", d.Name)
		assert.Equal(t, model.DeckTypeComposition, d.Type)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.Create(ctx, " ", "text")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("bad type", func(t *testing.T) {
		_, err := svc.Create(ctx, "x", "audio")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDeckService_RenameAndList(t *testing.T) {
	s := newTestStore(t)
	svc := NewDeckService(s, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, "a", "text")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "b", "image")
	require.NoError(t, err)

	renamed, err := svc.Rename(ctx, a.ID, "a2")
	require.NoError(t, err)
	assert.Equal(t, "a2", renamed.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)

	_, err = svc.Rename(ctx, a.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Rename(ctx, "missing", "x")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Name)
}
