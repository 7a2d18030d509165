package model

import (
	"fmt"
	"time"
)

// DeckType is a descriptive tag; it is not enforced against the deck's cards.
type DeckType string

const (
	DeckTypeImage       DeckType = "image"
	DeckTypeText        DeckType = "text"
	DeckTypeMixed       DeckType = "mixed"
	DeckTypeComposition DeckType = "composition"
)

// ParseDeckType validates a user supplied deck type tag.
func ParseDeckType(s string) (DeckType, error) {
	switch t := DeckType(s); t {
	case DeckTypeImage, DeckTypeText, DeckTypeMixed, DeckTypeComposition:
		return t, nil
	}
	return "", fmt.Errorf("unknown deck type %q (expected image|text|mixed|composition)", s)
}

// Deck is a named collection of cards.
type Deck struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      DeckType  `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	OwnerID   string    `json:"ownerId,omitempty"`
}
