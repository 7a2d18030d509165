package repo

import (
	"context"
	"testing"

	"CardForge/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckRepo_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := &model.Deck{Name: "Kanji", Type: model.DeckTypeImage, OwnerID: "u1"}
	require.NoError(t, s.Decks().Create(ctx, d))
	require.NotEmpty(t, d.ID)
	assert.False(t, d.CreatedAt.IsZero())
	assert.Equal(t, d.CreatedAt, d.UpdatedAt)

	got, err := s.Decks().GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kanji", got.Name)
	assert.Equal(t, model.DeckTypeImage, got.Type)
	assert.Equal(t, "u1", got.OwnerID)
	assert.True(t, d.CreatedAt.Equal(got.CreatedAt))
}

func TestDeckRepo_GetUnknown(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Decks().GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeckRepo_ListOrderedByUpdatedAtDesc(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := mustDeck(t, s, "a")
	b := mustDeck(t, s, "b")
	c := mustDeck(t, s, "c")

	name := "a2"
	_, err := s.Decks().Update(ctx, a.ID, DeckPatch{Name: &name})
	require.NoError(t, err)

	list, err := s.Decks().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, "a2", list[0].Name)
}

func TestDeckRepo_UpdateStampsUpdatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d := mustDeck(t, s, "old")

	name := "new"
	typ := model.DeckTypeComposition
	got, err := s.Decks().Update(ctx, d.ID, DeckPatch{Name: &name, Type: &typ})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, model.DeckTypeComposition, got.Type)
	assert.True(t, got.UpdatedAt.After(d.UpdatedAt))
	assert.True(t, got.CreatedAt.Equal(d.CreatedAt))

	_, err = s.Decks().Update(ctx, "missing", DeckPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}
