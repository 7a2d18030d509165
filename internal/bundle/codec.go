package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"CardForge/internal/model"
	"CardForge/internal/repo"

	"go.uber.org/zap"
)

// Codec exports decks into bundles and imports bundles as new decks.
type Codec struct {
	store repo.Store
	log   *zap.SugaredLogger
	now   func() time.Time
}

// NewCodec builds a codec over store. A nil logger disables logging.
func NewCodec(store repo.Store, log *zap.SugaredLogger) *Codec {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Codec{store: store, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Export reads a deck, its live cards and the blobs they reference.
func (c *Codec) Export(ctx context.Context, deckID string) (*Bundle, error) {
	deck, err := c.store.Decks().GetByID(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("export deck: %w", err)
	}
	cards, err := c.store.Cards().ListByDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("export cards: %w", err)
	}

	images := make(map[string]ExportedImage)
	for _, card := range cards {
		id, ok := card.ImageID()
		if !ok || id == "" {
			continue
		}
		if _, done := images[id]; done {
			continue
		}
		blob, err := c.store.Images().GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			c.log.Warnw("image blob missing, skipped in export", "deck", deckID, "card", card.ID, "image", id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("export image %s: %w", id, err)
		}
		images[id] = encodeImage(blob)
	}

	c.log.Infow("deck exported", "deck", deckID, "cards", len(cards), "images", len(images))
	return &Bundle{Version: CurrentVersion, Deck: *deck, Cards: cards, Images: images}, nil
}

// ExportTo writes the deck's bundle to w.
func (c *Codec) ExportTo(ctx context.Context, deckID string, w io.Writer) error {
	b, err := c.Export(ctx, deckID)
	if err != nil {
		return err
	}
	return Encode(w, b)
}

// Import stores b as a new deck with fresh deck, card and image ids and returns the deck id.
// The store is left unchanged on any error.
func (c *Codec) Import(ctx context.Context, b *Bundle) (string, error) {
	decoded, err := prepare(b)
	if err != nil {
		return "", err
	}
	now := c.now()

	deck := b.Deck
	deck.ID = model.NewID()
	deck.CreatedAt = now
	deck.UpdatedAt = now

	imageIDs := make(map[string]string, len(decoded))
	blobs := make([]model.ImageBlob, 0, len(decoded))
	for _, img := range decoded {
		id := model.NewID()
		imageIDs[img.oldID] = id
		blobs = append(blobs, model.ImageBlob{ID: id, Data: img.data, MIMEType: img.mimeType})
	}

	cardIDs := make(map[string]string, len(b.Cards))
	cards := make([]model.Card, 0, len(b.Cards))
	for _, src := range b.Cards {
		card := src.Clone()
		card.ID = model.NewID()
		cardIDs[src.ID] = card.ID
		card.DeckID = &deck.ID
		card.CreatedAt = now
		card.UpdatedAt = now
		if old, ok := card.ImageID(); ok {
			if id, found := imageIDs[old]; found {
				card = card.WithImageID(id)
			}
		}
		cards = append(cards, card)
	}

	err = c.store.WithinTx(ctx, func(tx repo.Store) error {
		if err := tx.Decks().Create(ctx, &deck); err != nil {
			return err
		}
		if err := tx.Images().BulkCreate(ctx, blobs); err != nil {
			return err
		}
		return tx.Cards().BulkCreate(ctx, cards)
	})
	if err != nil {
		c.log.Errorw("bundle import failed", "deck", b.Deck.Name, "error", err)
		return "", fmt.Errorf("%w: %w", ErrImportFailed, err)
	}

	c.log.Infow("deck imported", "deck", deck.ID, "cards", len(cardIDs), "images", len(imageIDs))
	return deck.ID, nil
}

// ImportFrom decodes a bundle from r and imports it.
func (c *Codec) ImportFrom(ctx context.Context, r io.Reader) (string, error) {
	b, err := Decode(r)
	if err != nil {
		return "", err
	}
	return c.Import(ctx, b)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
