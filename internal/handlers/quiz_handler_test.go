package handlers_test

import (
	"bytes"
	"image/png"
	"net/http"
	"testing"

	"CardForge/internal/model"
	"CardForge/internal/quiz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quizResp struct {
	ID    string     `json:"id"`
	State quiz.State `json:"state"`
	Item  *struct {
		Kind     quiz.ItemKind `json:"kind"`
		Question string        `json:"question"`
		Answer   string        `json:"answer"`
		Masks    []model.Mask  `json:"masks"`
	} `json:"item"`
	Result  *quiz.Result `json:"result"`
	Percent *int         `json:"percent"`
}

func TestQuiz_FullRun(t *testing.T) {
	api := newHandlersTestRouter(t)
	d := api.createDeck("Words", "text")
	api.createTextCard(d.ID, "one", "ichi", "1")
	api.createTextCard(d.ID, "two", "ni", "2")

	rr := api.do(http.MethodPost, "/api/decks/"+d.ID+"/quiz", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	q := decodeResp[quizResp](t, rr)
	require.NotEmpty(t, q.ID)
	assert.Equal(t, quiz.PhasePresenting, q.State.Phase)
	assert.Equal(t, 2, q.State.Total)
	require.NotNil(t, q.Item)
	assert.NotEmpty(t, q.Item.Question)
	assert.Empty(t, q.Item.Answer, "answer is hidden until revealed")

	base := "/api/quiz/" + q.ID
	rr = api.do(http.MethodPost, base+"/grade", map[string]bool{"correct": true})
	assert.Equal(t, http.StatusConflict, rr.Code)

	for i, correct := range []bool{true, false} {
		rr = api.do(http.MethodPost, base+"/reveal", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		q = decodeResp[quizResp](t, rr)
		assert.True(t, q.State.Revealed)
		assert.NotEmpty(t, q.Item.Answer, "item %d", i)

		rr = api.do(http.MethodPost, base+"/grade", map[string]bool{"correct": correct})
		require.Equal(t, http.StatusOK, rr.Code)
	}

	q = decodeResp[quizResp](t, api.do(http.MethodGet, base, nil))
	assert.Equal(t, quiz.PhaseFinished, q.State.Phase)
	assert.Nil(t, q.Item)
	require.NotNil(t, q.Result)
	assert.Equal(t, quiz.Result{Score: 1, Total: 2}, *q.Result)
	assert.Equal(t, 50, *q.Percent)

	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, base+"/reveal", nil).Code)

	rr = api.do(http.MethodPost, base+"/restart", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	q = decodeResp[quizResp](t, rr)
	assert.Equal(t, quiz.PhasePresenting, q.State.Phase)
	assert.Equal(t, 0, q.State.Score)
}

func TestQuiz_EmptyDeckStartsFinished(t *testing.T) {
	api := newHandlersTestRouter(t)
	d := api.createDeck("Empty", "text")

	rr := api.do(http.MethodPost, "/api/decks/"+d.ID+"/quiz", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	q := decodeResp[quizResp](t, rr)
	assert.Equal(t, quiz.PhaseFinished, q.State.Phase)
	assert.Equal(t, 100, *q.Percent)
}

func TestQuiz_NotFound(t *testing.T) {
	api := newHandlersTestRouter(t)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/decks/missing/quiz", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/quiz/missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/quiz/missing/reveal", nil).Code)
}

func TestQuiz_ImageItem(t *testing.T) {
	api := newHandlersTestRouter(t)
	d := api.createDeck("Maps", "image")
	rr := uploadImages(t, api, d.ID, map[string][]byte{"map.png": testPNG(t, 60, 40)})
	require.Equal(t, http.StatusCreated, rr.Code)
	card := decodeResp[[]model.Card](t, rr)[0]
	rr = api.do(http.MethodPost, "/api/cards/"+card.ID+"/masks", map[string]any{
		"rect": model.Rect{X: 10, Y: 10, Width: 20, Height: 20},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	q := decodeResp[quizResp](t, api.do(http.MethodPost, "/api/decks/"+d.ID+"/quiz", nil))
	require.NotNil(t, q.Item)
	assert.Equal(t, quiz.KindImage, q.Item.Kind)
	assert.Len(t, q.Item.Masks, 1)

	rr = api.do(http.MethodGet, "/api/quiz/"+q.ID+"/image", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
}

func TestQuiz_ImageOnTextItem(t *testing.T) {
	api := newHandlersTestRouter(t)
	d := api.createDeck("Words", "text")
	api.createTextCard(d.ID, "one", "ichi", "1")

	q := decodeResp[quizResp](t, api.do(http.MethodPost, "/api/decks/"+d.ID+"/quiz", nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/quiz/"+q.ID+"/image", nil).Code)
}
