package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"CardForge/internal/model"
	"CardForge/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CardHandler struct {
	CardService *service.CardService
	Logger      *zap.SugaredLogger
}

func NewCardHandler(cardService *service.CardService, logger *zap.SugaredLogger) *CardHandler {
	return &CardHandler{CardService: cardService, Logger: logger}
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	card, err := h.CardService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "GetCard", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

type updateCardRequest struct {
	Name    *string         `json:"name"`
	Tags    *[]string       `json:"tags"`
	Memo    *string         `json:"memo"`
	Content json.RawMessage `json:"content"`
}

// Update patches shared fields. The optional content object is read as the card's own variant.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCardRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.Logger, "UpdateCard", err)
		return
	}
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	upd := service.CardUpdate{Name: req.Name, Tags: req.Tags, Memo: req.Memo}
	if len(req.Content) > 0 && string(req.Content) != "null" {
		current, err := h.CardService.Get(ctx, id)
		if err != nil {
			writeError(w, h.Logger, "UpdateCard", err)
			return
		}
		content, err := model.DecodeContent(current.Type(), req.Content)
		if err != nil {
			writeError(w, h.Logger, "UpdateCard", err)
			return
		}
		upd.Content = content
	}

	card, err := h.CardService.Update(ctx, id, upd)
	if err != nil {
		writeError(w, h.Logger, "UpdateCard", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.CardService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, "DeleteCard", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CardHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if err := h.CardService.Restore(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, "RestoreCard", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveRequest struct {
	CardIDs []string `json:"cardIds"`
	DeckID  string   `json:"deckId"`
}

func (h *CardHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.Logger, "MoveCards", err)
		return
	}
	if err := h.CardService.Move(r.Context(), req.CardIDs, req.DeckID); err != nil {
		writeError(w, h.Logger, "MoveCards", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type maskRequest struct {
	Name string     `json:"name"`
	Rect model.Rect `json:"rect"`
}

func (h *CardHandler) AddMask(w http.ResponseWriter, r *http.Request) {
	var req maskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.Logger, "AddMask", err)
		return
	}
	card, err := h.CardService.AddMask(r.Context(), chi.URLParam(r, "id"), req.Rect, req.Name)
	if err != nil {
		writeError(w, h.Logger, "AddMask", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

type linkRequest struct {
	MaskIDs []string `json:"maskIds"`
}

func (h *CardHandler) LinkMasks(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.Logger, "LinkMasks", err)
		return
	}
	card, err := h.CardService.LinkMasks(r.Context(), chi.URLParam(r, "id"), req.MaskIDs)
	if err != nil {
		writeError(w, h.Logger, "LinkMasks", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *CardHandler) UnlinkGroup(w http.ResponseWriter, r *http.Request) {
	card, err := h.CardService.UnlinkGroup(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "gid"))
	if err != nil {
		writeError(w, h.Logger, "UnlinkGroup", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

type updateMaskRequest struct {
	IsQuestion *bool `json:"isQuestion"`
}

// UpdateMask toggles whether a mask is a question.
func (h *CardHandler) UpdateMask(w http.ResponseWriter, r *http.Request) {
	var req updateMaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.Logger, "UpdateMask", err)
		return
	}
	if req.IsQuestion == nil {
		http.Error(w, "isQuestion is required", http.StatusBadRequest)
		return
	}
	card, err := h.CardService.SetMaskQuestion(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "mid"), *req.IsQuestion)
	if err != nil {
		writeError(w, h.Logger, "UpdateMask", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *CardHandler) DeleteMask(w http.ResponseWriter, r *http.Request) {
	card, err := h.CardService.DeleteMask(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "mid"))
	if err != nil {
		writeError(w, h.Logger, "DeleteMask", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *CardHandler) Translate(w http.ResponseWriter, r *http.Request) {
	card, err := h.CardService.Translate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "Translate", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *CardHandler) Extract(w http.ResponseWriter, r *http.Request) {
	card, err := h.CardService.ExtractPhrases(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "Extract", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// Image serves raw blob bytes.
func (h *CardHandler) Image(w http.ResponseWriter, r *http.Request) {
	blob, err := h.CardService.ImageByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "Image", err)
		return
	}
	writeBlob(w, blob.MIMEType, blob.Data)
}

func writeBlob(w http.ResponseWriter, mimeType string, data []byte) {
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
