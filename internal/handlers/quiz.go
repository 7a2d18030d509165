package handlers

import (
	"net/http"
	"sync"

	"CardForge/internal/model"
	"CardForge/internal/quiz"
	"CardForge/internal/render"
	"CardForge/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// quizEntry serialises access to one session.
type quizEntry struct {
	mu      sync.Mutex
	deckID  string
	session *quiz.Session
}

// quizRegistry keeps the running sessions of this process.
// TODO: expire idle quiz sessions; entries currently live until restart.
type quizRegistry struct {
	mu       sync.Mutex
	sessions map[string]*quizEntry
}

func newQuizRegistry() *quizRegistry {
	return &quizRegistry{sessions: make(map[string]*quizEntry)}
}

func (r *quizRegistry) add(deckID string, s *quiz.Session) string {
	id := model.NewID()
	r.mu.Lock()
	r.sessions[id] = &quizEntry{deckID: deckID, session: s}
	r.mu.Unlock()
	return id
}

func (r *quizRegistry) get(id string) (*quizEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	return e, ok
}

type QuizHandler struct {
	CardService *service.CardService
	Logger      *zap.SugaredLogger
	Options     []quiz.Option

	registry *quizRegistry
}

func NewQuizHandler(cardService *service.CardService, logger *zap.SugaredLogger, opts ...quiz.Option) *QuizHandler {
	return &QuizHandler{
		CardService: cardService,
		Logger:      logger,
		Options:     opts,
		registry:    newQuizRegistry(),
	}
}

type quizItemView struct {
	Key      string        `json:"key"`
	Kind     quiz.ItemKind `json:"kind"`
	CardID   string        `json:"cardId"`
	CardName string        `json:"cardName"`
	Question string        `json:"question,omitempty"`
	Answer   string        `json:"answer,omitempty"`
	Masks    []model.Mask  `json:"masks,omitempty"`
}

type quizView struct {
	ID      string        `json:"id"`
	DeckID  string        `json:"deckId"`
	State   quiz.State    `json:"state"`
	Item    *quizItemView `json:"item,omitempty"`
	Result  *quiz.Result  `json:"result,omitempty"`
	Percent *int          `json:"percent,omitempty"`
}

// view renders the session for the client. The answer is only included once revealed.
func view(id string, e *quizEntry) quizView {
	v := quizView{ID: id, DeckID: e.deckID, State: e.session.State()}
	if it, ok := e.session.Current(); ok {
		iv := &quizItemView{
			Key:      it.Key(),
			Kind:     it.Kind,
			CardID:   it.Card.ID,
			CardName: it.Card.Name,
			Question: it.Prompt(),
			Masks:    it.Masks,
		}
		if v.State.Revealed {
			iv.Answer = it.Answer()
		}
		v.Item = iv
	}
	if res, ok := e.session.Result(); ok {
		p := res.Percent()
		v.Result, v.Percent = &res, &p
	}
	return v
}

// Start compiles the deck into a new session.
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "id")
	s, err := h.CardService.StartQuiz(r.Context(), deckID, h.Options...)
	if err != nil {
		writeError(w, h.Logger, "StartQuiz", err)
		return
	}
	id := h.registry.add(deckID, s)
	e, _ := h.registry.get(id)
	h.Logger.Infow("StartQuiz: session created", "session", id, "deck", deckID)
	writeJSON(w, http.StatusCreated, view(id, e))
}

// withSession runs fn under the session lock and answers with the resulting view.
func (h *QuizHandler) withSession(w http.ResponseWriter, r *http.Request, op string, fn func(s *quiz.Session) error) {
	id := chi.URLParam(r, "sid")
	e, ok := h.registry.get(id)
	if !ok {
		http.Error(w, "quiz session not found", http.StatusNotFound)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn != nil {
		if err := fn(e.session); err != nil {
			writeError(w, h.Logger, op, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, view(id, e))
}

func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "GetQuiz", nil)
}

func (h *QuizHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "RevealQuiz", (*quiz.Session).Reveal)
}

type gradeRequest struct {
	Correct bool `json:"correct"`
}

func (h *QuizHandler) Grade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.Logger, "GradeQuiz", err)
		return
	}
	h.withSession(w, r, "GradeQuiz", func(s *quiz.Session) error { return s.Grade(req.Correct) })
}

func (h *QuizHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "RestartQuiz", (*quiz.Session).Restart)
}

// Image renders the current image item with its masks hidden or revealed.
func (h *QuizHandler) Image(w http.ResponseWriter, r *http.Request) {
	e, ok := h.registry.get(chi.URLParam(r, "sid"))
	if !ok {
		http.Error(w, "quiz session not found", http.StatusNotFound)
		return
	}
	e.mu.Lock()
	it, ok := e.session.Current()
	revealed := e.session.State().Revealed
	e.mu.Unlock()
	if !ok || it.Kind != quiz.KindImage {
		http.Error(w, "current item has no image", http.StatusNotFound)
		return
	}

	blob, err := h.CardService.Image(r.Context(), it.Card.ID)
	if err != nil {
		writeError(w, h.Logger, "QuizImage", err)
		return
	}
	png, err := render.MaskedPNG(blob.Data, it.FocusMasks(), revealed)
	if err != nil {
		writeError(w, h.Logger, "QuizImage", err)
		return
	}
	writeBlob(w, "image/png", png)
}
