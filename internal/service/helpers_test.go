package service

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"CardForge/internal/ai"
	"CardForge/internal/model"
	"CardForge/internal/repo"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct{ mock.Mock }

func (m *mockGenerator) Translate(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *mockGenerator) ExtractPhrases(ctx context.Context, text string) ([]model.TextQA, error) {
	args := m.Called(ctx, text)
	if v, ok := args.Get(0).([]model.TextQA); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ ai.Generator = (*mockGenerator)(nil)

func newTestStore(t *testing.T) repo.Store {
	t.Helper()
	db, err := repo.InitDB(filepath.Join(t.TempDir(), "service.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close(db) })
	return repo.NewStore(db)
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(w, h, color.NRGBA{R: 200, G: 200, B: 200, A: 255})))
	return buf.Bytes()
}

func newDeck(t *testing.T, s repo.Store) *model.Deck {
	t.Helper()
	d, err := NewDeckService(s, nil).Create(context.Background(), "deck", "text")
	require.NoError(t, err)
	return d
}
