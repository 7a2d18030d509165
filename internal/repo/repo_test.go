package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"CardForge/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB открывает отдельный sqlite-файл на каждый тест.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	return NewStore(newTestDB(t)).WithClock(stepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func mustDeck(t *testing.T, s Store, name string) *model.Deck {
	t.Helper()
	d := &model.Deck{Name: name, Type: model.DeckTypeText}
	require.NoError(t, s.Decks().Create(context.Background(), d))
	return d
}

func mustTextCard(t *testing.T, s Store, deckID, name string) *model.Card {
	t.Helper()
	c, err := model.NewTextCard(deckID, name, []model.TextQA{{Question: "q", Answer: "a"}})
	require.NoError(t, err)
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	require.NoError(t, s.Cards().Create(context.Background(), &c))
	return &c
}

func TestInitDB_EmptyDSN(t *testing.T) {
	_, err := InitDB("")
	require.Error(t, err)
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, isPostgres("postgres://u:p@localhost/db"))
	assert.True(t, isPostgres("postgresql://localhost/db"))
	assert.True(t, isPostgres("host=localhost user=u dbname=db"))
	assert.False(t, isPostgres("/tmp/cards.sqlite"))
	assert.False(t, isPostgres("file::memory:?cache=shared"))
}

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr("op", nil))
	assert.ErrorIs(t, wrapErr("op", gorm.ErrRecordNotFound), ErrNotFound)

	cause := errors.New("disk full")
	err := wrapErr("op", cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
}
