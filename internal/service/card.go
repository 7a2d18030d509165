package service

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"CardForge/internal/ai"
	"CardForge/internal/model"
	"CardForge/internal/quiz"
	"CardForge/internal/render"
	"CardForge/internal/repo"

	"go.uber.org/zap"
)

// SortKey orders card listings.
type SortKey string

const (
	SortUpdatedAt SortKey = "updatedAt"
	SortCreatedAt SortKey = "createdAt"
	SortName      SortKey = "name"
)

// ParseSortKey accepts the listing sort keys; empty means SortUpdatedAt.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortUpdatedAt, nil
	case SortUpdatedAt, SortCreatedAt, SortName:
		return k, nil
	}
	return "", validationf("unknown sort key %q", s)
}

// ImageUpload is one uploaded image file.
type ImageUpload struct {
	FileName string
	MIMEType string
	Data     []byte
}

// CardUpdate lists the card fields to change. Nil fields are left as they are.
type CardUpdate struct {
	Name    *string
	Tags    *[]string
	Memo    *string
	Content model.CardContent
}

// CardService implements card authoring.
type CardService struct {
	store         repo.Store
	gen           ai.Generator
	log           *zap.SugaredLogger
	maxImageBytes int64
}

// CardOption configures a CardService.
type CardOption func(*CardService)

// WithMaxImageBytes caps the size of uploaded images. Zero disables the check.
func WithMaxImageBytes(n int64) CardOption {
	return func(s *CardService) { s.maxImageBytes = n }
}

func NewCardService(store repo.Store, gen ai.Generator, log *zap.SugaredLogger, opts ...CardOption) *CardService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if gen == nil {
		gen = ai.New(ai.Config{}, log)
	}
	s := &CardService{store: store, gen: gen, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CardService) ensureDeck(ctx context.Context, deckID string) error {
	if _, err := s.store.Decks().GetByID(ctx, deckID); err != nil {
		return err
	}
	return nil
}

// CreateText stores a text card. QA pairs need both sides filled in.
func (s *CardService) CreateText(ctx context.Context, deckID, name string, qas []model.TextQA) (*model.Card, error) {
	name, err := requireName(name, "card")
	if err != nil {
		return nil, err
	}
	for i, qa := range qas {
		if strings.TrimSpace(qa.Question) == "" || strings.TrimSpace(qa.Answer) == "" {
			return nil, validationf("question %d needs both question and answer", i+1)
		}
	}
	if err := s.ensureDeck(ctx, deckID); err != nil {
		return nil, err
	}
	c, err := model.NewTextCard(deckID, name, qas)
	if err != nil {
		return nil, asValidation(err)
	}
	if err := s.store.Cards().Create(ctx, &c); err != nil {
		return nil, asValidation(err)
	}
	s.log.Infow("card created", "card", c.ID, "deck", deckID, "type", c.Type())
	return &c, nil
}

// CreateComposition stores a composition card with source text and an optional translation.
func (s *CardService) CreateComposition(ctx context.Context, deckID, name, source, translated string) (*model.Card, error) {
	name, err := requireName(name, "card")
	if err != nil {
		return nil, err
	}
	if err := s.ensureDeck(ctx, deckID); err != nil {
		return nil, err
	}
	c, err := model.NewCompositionCard(deckID, name, source, translated)
	if err != nil {
		return nil, asValidation(err)
	}
	if err := s.store.Cards().Create(ctx, &c); err != nil {
		return nil, asValidation(err)
	}
	s.log.Infow("card created", "card", c.ID, "deck", deckID, "type", c.Type())
	return &c, nil
}

// AddImages stores one blob and one image card per upload. Either all uploads are stored or none.
func (s *CardService) AddImages(ctx context.Context, deckID string, uploads []ImageUpload) ([]model.Card, error) {
	if len(uploads) == 0 {
		return nil, validationf("no images given")
	}
	if err := s.ensureDeck(ctx, deckID); err != nil {
		return nil, err
	}

	blobs := make([]model.ImageBlob, 0, len(uploads))
	cards := make([]model.Card, 0, len(uploads))
	for _, up := range uploads {
		if s.maxImageBytes > 0 && int64(len(up.Data)) > s.maxImageBytes {
			return nil, validationf("%s is larger than %d bytes", up.FileName, s.maxImageBytes)
		}
		if _, _, err := render.Dimensions(up.Data); err != nil {
			return nil, validationf("%s: %v", up.FileName, err)
		}
		mimeType := up.MIMEType
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = http.DetectContentType(up.Data)
		}
		blob := model.ImageBlob{ID: model.NewID(), Data: up.Data, MIMEType: mimeType}
		name := strings.TrimSuffix(filepath.Base(up.FileName), filepath.Ext(up.FileName))
		if name == "" || name == "." {
			name = "Image"
		}
		c, err := model.NewImageCard(deckID, name, blob.ID)
		if err != nil {
			return nil, asValidation(err)
		}
		blobs = append(blobs, blob)
		cards = append(cards, c)
	}

	err := s.store.WithinTx(ctx, func(tx repo.Store) error {
		if err := tx.Images().BulkCreate(ctx, blobs); err != nil {
			return err
		}
		return tx.Cards().BulkCreate(ctx, cards)
	})
	if err != nil {
		return nil, fmt.Errorf("add images: %w", err)
	}
	s.log.Infow("image cards created", "deck", deckID, "count", len(cards))
	return cards, nil
}

func (s *CardService) Get(ctx context.Context, id string) (*model.Card, error) {
	return s.store.Cards().GetByID(ctx, id)
}

// List returns the deck's live cards: newest first for the time keys, alphabetical for name.
func (s *CardService) List(ctx context.Context, deckID string, key SortKey) ([]model.Card, error) {
	if err := s.ensureDeck(ctx, deckID); err != nil {
		return nil, err
	}
	cards, err := s.store.Cards().ListByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	sortCards(cards, key)
	return cards, nil
}

// ListDeleted returns the deck's soft-deleted cards.
func (s *CardService) ListDeleted(ctx context.Context, deckID string) ([]model.Card, error) {
	return s.store.Cards().ListDeleted(ctx, deckID)
}

func sortCards(cards []model.Card, key SortKey) {
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		switch key {
		case SortName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortCreatedAt:
			return a.CreatedAt.After(b.CreatedAt)
		default:
			return a.UpdatedAt.After(b.UpdatedAt)
		}
	})
}

// Update edits shared fields and, optionally, the content of the card's own variant.
func (s *CardService) Update(ctx context.Context, id string, upd CardUpdate) (*model.Card, error) {
	if upd.Name != nil {
		name, err := requireName(*upd.Name, "card")
		if err != nil {
			return nil, err
		}
		upd.Name = &name
	}
	if tc, ok := upd.Content.(model.TextContent); ok {
		for i := range tc.TextQAs {
			if tc.TextQAs[i].ID == "" {
				tc.TextQAs[i].ID = model.NewShortID()
			}
		}
		upd.Content = tc
	}
	c, err := s.store.Cards().Update(ctx, id, repo.CardPatch{
		Name:    upd.Name,
		Tags:    upd.Tags,
		Memo:    upd.Memo,
		Content: upd.Content,
	})
	if err != nil {
		return nil, asValidation(err)
	}
	s.log.Infow("card updated", "card", id)
	return c, nil
}

// Delete soft-deletes a card.
func (s *CardService) Delete(ctx context.Context, id string) error {
	if err := s.store.Cards().SoftDelete(ctx, id); err != nil {
		return err
	}
	s.log.Infow("card deleted", "card", id)
	return nil
}

func (s *CardService) Restore(ctx context.Context, id string) error {
	if err := s.store.Cards().Restore(ctx, id); err != nil {
		return err
	}
	s.log.Infow("card restored", "card", id)
	return nil
}

// Move reassigns cards to another existing deck.
func (s *CardService) Move(ctx context.Context, ids []string, deckID string) error {
	if len(ids) == 0 {
		return validationf("no cards selected")
	}
	if err := s.ensureDeck(ctx, deckID); err != nil {
		return err
	}
	if err := s.store.Cards().MoveToDeck(ctx, ids, deckID); err != nil {
		return err
	}
	s.log.Infow("cards moved", "deck", deckID, "count", len(ids))
	return nil
}

// Translate fills the translation of a composition card.
func (s *CardService) Translate(ctx context.Context, id string) (*model.Card, error) {
	c, content, err := s.composition(ctx, id)
	if err != nil {
		return nil, err
	}
	translated, err := s.gen.Translate(ctx, content.SourceJapanese)
	if err != nil {
		return nil, err
	}
	content.TranslatedEnglish = translated
	s.log.Infow("card translated", "card", c.ID)
	return s.store.Cards().Update(ctx, c.ID, repo.CardPatch{Content: content})
}

// ExtractPhrases replaces the extracted phrases of a translated composition card.
func (s *CardService) ExtractPhrases(ctx context.Context, id string) (*model.Card, error) {
	c, content, err := s.composition(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content.TranslatedEnglish) == "" {
		return nil, validationf("translate card %s before extracting phrases", id)
	}
	phrases, err := s.gen.ExtractPhrases(ctx, content.SourceJapanese)
	if err != nil {
		return nil, err
	}
	content.ExtractedPhrases = phrases
	s.log.Infow("phrases extracted", "card", c.ID, "count", len(phrases))
	return s.store.Cards().Update(ctx, c.ID, repo.CardPatch{Content: content})
}

func (s *CardService) composition(ctx context.Context, id string) (*model.Card, model.CompositionContent, error) {
	c, err := s.store.Cards().GetByID(ctx, id)
	if err != nil {
		return nil, model.CompositionContent{}, err
	}
	content, ok := c.Content.(model.CompositionContent)
	if !ok {
		return nil, model.CompositionContent{}, validationf("card %s is %s, not composition", id, c.Type())
	}
	return c, content, nil
}

// StartQuiz compiles the deck's live cards into a new shuffled session.
func (s *CardService) StartQuiz(ctx context.Context, deckID string, opts ...quiz.Option) (*quiz.Session, error) {
	if err := s.ensureDeck(ctx, deckID); err != nil {
		return nil, err
	}
	cards, err := s.store.Cards().ListByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	items := quiz.Compile(cards)
	s.log.Infow("quiz started", "deck", deckID, "cards", len(cards), "items", len(items))
	return quiz.NewSession(items, opts...), nil
}

// Image returns the blob of an image-bearing card.
func (s *CardService) Image(ctx context.Context, cardID string) (*model.ImageBlob, error) {
	c, err := s.store.Cards().GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	id, ok := c.ImageID()
	if !ok || id == "" {
		return nil, validationf("card %s has no image", cardID)
	}
	return s.store.Images().GetByID(ctx, id)
}

// ImageByID returns a blob by its own id.
func (s *CardService) ImageByID(ctx context.Context, id string) (*model.ImageBlob, error) {
	return s.store.Images().GetByID(ctx, id)
}
