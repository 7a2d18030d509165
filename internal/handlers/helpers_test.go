package handlers_test

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"CardForge/internal/auth"
	"CardForge/internal/bundle"
	"CardForge/internal/config"
	"CardForge/internal/handlers"
	"CardForge/internal/middleware"
	"CardForge/internal/model"
	"CardForge/internal/repo"
	"CardForge/internal/service"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testAPI struct {
	t      *testing.T
	router http.Handler
	cfg    *config.Config
}

func newHandlersTestRouter(t *testing.T) *testAPI {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", BlobMaxSizeMB: 1}
	logger := zap.NewNop().Sugar()

	db, err := repo.InitDB(filepath.Join(t.TempDir(), "handlers.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close(db) })
	store := repo.NewStore(db)

	deckSvc := service.NewDeckService(store, logger)
	cardSvc := service.NewCardService(store, nil, logger, service.WithMaxImageBytes(cfg.BlobMaxBytes()))
	codec := bundle.NewCodec(store, logger)
	h := handlers.NewHandler(deckSvc, cardSvc, codec, logger, cfg)
	return &testAPI{t: t, router: h.Router, cfg: cfg}
}

func addAuth(t *testing.T, req *http.Request, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	u := auth.User{UID: auth.MockUserID, Email: "demo@example.com", DisplayName: "demo"}
	require.NoError(t, middleware.SetLoginCookie(rr, u, secret))
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

// do sends an authenticated request. body may be nil, a []byte or any JSON-encodable value.
func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	addAuth(a.t, req, a.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decodeResp[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (a *testAPI) createDeck(name, deckType string) model.Deck {
	a.t.Helper()
	rr := a.do(http.MethodPost, "/api/decks", map[string]string{"name": name, "type": deckType})
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeResp[model.Deck](a.t, rr)
}

func (a *testAPI) createTextCard(deckID, name, q, ans string) model.Card {
	a.t.Helper()
	rr := a.do(http.MethodPost, "/api/decks/"+deckID+"/cards", map[string]any{
		"type":    "text",
		"name":    name,
		"textQAs": []map[string]string{{"question": q, "answer": ans}},
	})
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeResp[model.Card](a.t, rr)
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(w, h, color.NRGBA{R: 90, G: 120, B: 150, A: 255})))
	return buf.Bytes()
}
