package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"CardForge/internal/bundle"
	"CardForge/internal/config"
	"CardForge/internal/model"
	"CardForge/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartMemory: сколько multipart-данных ParseMultipartForm держит в памяти.
const multipartMemory = 32 << 20

type DeckHandler struct {
	DeckService *service.DeckService
	CardService *service.CardService
	Codec       *bundle.Codec
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewDeckHandler(
	deckService *service.DeckService,
	cardService *service.CardService,
	codec *bundle.Codec,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *DeckHandler {
	return &DeckHandler{
		DeckService: deckService,
		CardService: cardService,
		Codec:       codec,
		Logger:      logger,
		Config:      cfg,
	}
}

type deckRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	decks, err := h.DeckService.List(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ListDecks", err)
		return
	}
	if decks == nil {
		decks = []model.Deck{}
	}
	writeJSON(w, http.StatusOK, decks)
}

func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.Logger, "CreateDeck", err)
		return
	}
	deck, err := h.DeckService.Create(r.Context(), req.Name, req.Type)
	if err != nil {
		writeError(w, h.Logger, "CreateDeck", err)
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	deck, err := h.DeckService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "GetDeck", err)
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

// Rename only changes the name; the deck type is fixed after creation.
func (h *DeckHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.Logger, "RenameDeck", err)
		return
	}
	deck, err := h.DeckService.Rename(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, h.Logger, "RenameDeck", err)
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

// Cards lists the deck's live cards, or the deleted ones with ?deleted=true.
func (h *DeckHandler) Cards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deckID := chi.URLParam(r, "id")
	if _, err := h.DeckService.Get(ctx, deckID); err != nil {
		writeError(w, h.Logger, "ListCards", err)
		return
	}

	var (
		cards []model.Card
		err   error
	)
	if r.URL.Query().Get("deleted") == "true" {
		cards, err = h.CardService.ListDeleted(ctx, deckID)
	} else {
		var key service.SortKey
		if key, err = service.ParseSortKey(r.URL.Query().Get("sort")); err == nil {
			cards, err = h.CardService.List(ctx, deckID, key)
		}
	}
	if err != nil {
		writeError(w, h.Logger, "ListCards", err)
		return
	}
	if cards == nil {
		cards = []model.Card{}
	}
	writeJSON(w, http.StatusOK, cards)
}

type createCardRequest struct {
	Type              model.CardType `json:"type"`
	Name              string         `json:"name"`
	TextQAs           []model.TextQA `json:"textQAs"`
	SourceJapanese    string         `json:"sourceJapanese"`
	TranslatedEnglish string         `json:"translatedEnglish"`
}

// CreateCard authors a text or composition card. Image cards come from UploadImages.
func (h *DeckHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.Logger, "CreateCard", err)
		return
	}
	deckID := chi.URLParam(r, "id")

	var (
		card *model.Card
		err  error
	)
	switch req.Type {
	case model.CardTypeText:
		card, err = h.CardService.CreateText(r.Context(), deckID, req.Name, req.TextQAs)
	case model.CardTypeComposition:
		card, err = h.CardService.CreateComposition(r.Context(), deckID, req.Name, req.SourceJapanese, req.TranslatedEnglish)
	default:
		http.Error(w, fmt.Sprintf("unsupported card type %q", req.Type), http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, h.Logger, "CreateCard", err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// UploadImages читает multipart-поле "images" и создаёт по карточке на каждый файл.
func (h *DeckHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.bodyLimit())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.Logger.Warnw("UploadImages: parse multipart", "error", err)
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["images"]
	uploads := make([]service.ImageUpload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.Logger.Warnw("UploadImages: open part", "file", fh.Filename, "error", err)
			http.Error(w, "invalid upload", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			h.Logger.Warnw("UploadImages: read part", "file", fh.Filename, "error", err)
			http.Error(w, "invalid upload", http.StatusBadRequest)
			return
		}
		uploads = append(uploads, service.ImageUpload{
			FileName: fh.Filename,
			MIMEType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	cards, err := h.CardService.AddImages(r.Context(), chi.URLParam(r, "id"), uploads)
	if err != nil {
		writeError(w, h.Logger, "UploadImages", err)
		return
	}
	writeJSON(w, http.StatusCreated, cards)
}

// bodyLimit: лимит тела запроса с изображениями.
func (h *DeckHandler) bodyLimit() int64 {
	return h.Config.BlobMaxBytes() * 8
}

// Export streams the deck bundle as a file download.
func (h *DeckHandler) Export(w http.ResponseWriter, r *http.Request) {
	b, err := h.Codec.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "Export", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", bundle.ExportFileName(b.Deck)))
	if err := bundle.Encode(w, b); err != nil {
		h.Logger.Errorw("Export: write bundle", "deck", b.Deck.ID, "error", err)
	}
}

// Import принимает бандл телом запроса или multipart-полем "file".
// Лимит тела как у загрузки изображений; больше: 413.
func (h *DeckHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.bodyLimit())
	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		f, _, err := r.FormFile("file")
		if err != nil {
			if tooLarge(err) {
				writeError(w, h.Logger, "Import", err)
				return
			}
			h.Logger.Warnw("Import: missing file part", "error", err)
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer f.Close()
		src = f
	}
	id, err := h.Codec.ImportFrom(r.Context(), src)
	if err != nil {
		writeError(w, h.Logger, "Import", err)
		return
	}
	deck, err := h.DeckService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, "Import", err)
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}
