package service

import (
	"context"
	"fmt"

	"CardForge/internal/model"
	"CardForge/internal/repo"

	"go.uber.org/zap"
)

// DeckService инкапсулирует бизнес-логику работы с колодами.
type DeckService struct {
	store repo.Store
	log   *zap.SugaredLogger
}

func NewDeckService(store repo.Store, log *zap.SugaredLogger) *DeckService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &DeckService{store: store, log: log}
}

// Create validates the name and type tag and stores a new deck.
func (s *DeckService) Create(ctx context.Context, name, deckType string) (*model.Deck, error) {
	name, err := requireName(name, "deck")
	if err != nil {
		return nil, err
	}
	t, err := model.ParseDeckType(deckType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	d := &model.Deck{Name: name, Type: t}
	if err := s.store.Decks().Create(ctx, d); err != nil {
		return nil, err
	}
	s.log.Infow("deck created", "deck", d.ID, "type", d.Type)
	return d, nil
}

func (s *DeckService) List(ctx context.Context) ([]model.Deck, error) {
	return s.store.Decks().List(ctx)
}

func (s *DeckService) Get(ctx context.Context, id string) (*model.Deck, error) {
	return s.store.Decks().GetByID(ctx, id)
}

// Rename changes the deck name and stamps updatedAt.
func (s *DeckService) Rename(ctx context.Context, id, name string) (*model.Deck, error) {
	name, err := requireName(name, "deck")
	if err != nil {
		return nil, err
	}
	d, err := s.store.Decks().Update(ctx, id, repo.DeckPatch{Name: &name})
	if err != nil {
		return nil, err
	}
	s.log.Infow("deck renamed", "deck", id, "name", name)
	return d, nil
}
