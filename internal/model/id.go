package model

import (
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// NewID mints an identifier for a stored record (deck, card, image).
func NewID() string { return uuid.NewString() }

// NewShortID mints an identifier for a value nested inside a card: QA pairs, masks, mask groups.
func NewShortID() string { return shortuuid.New() }
