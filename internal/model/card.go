package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidCard is returned when a card does not carry the fields its type requires.
var ErrInvalidCard = errors.New("invalid card")

// CardType discriminates card variants. It never changes after a card is created.
type CardType string

const (
	CardTypeText        CardType = "text"
	CardTypeImage       CardType = "image"
	CardTypeComposition CardType = "composition"
	CardTypeMixed       CardType = "mixed"
)

// TextQA is a single question/answer pair.
type TextQA struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// NewQA builds a QA pair with a fresh id.
func NewQA(question, answer string) TextQA {
	return TextQA{ID: NewShortID(), Question: question, Answer: answer}
}

// CardContent is the variant-specific part of a card.
// The set of implementations is closed: TextContent, ImageContent, CompositionContent, MixedContent.
type CardContent interface {
	Type() CardType
	Validate() error
	normalized() CardContent
}

// TextContent holds an ordered list of QA pairs.
type TextContent struct {
	TextQAs []TextQA `json:"textQAs"`
}

// ImageContent references an image blob and the masks drawn over it.
type ImageContent struct {
	ImageID  string `json:"imageId"`
	ImageURL string `json:"imageUrl,omitempty"`
	Masks    []Mask `json:"masks"`
}

// CompositionContent is a source text with its translation and phrases extracted from it.
type CompositionContent struct {
	SourceJapanese    string   `json:"sourceJapanese"`
	TranslatedEnglish string   `json:"translatedEnglish"`
	ExtractedPhrases  []TextQA `json:"extractedPhrases,omitempty"`
}

// MixedContent combines image masks and text QA pairs. No authoring flow produces it yet.
type MixedContent struct {
	ImageID  string   `json:"imageId"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Masks    []Mask   `json:"masks"`
	TextQAs  []TextQA `json:"textQAs"`
}

func (TextContent) Type() CardType        { return CardTypeText }
func (ImageContent) Type() CardType       { return CardTypeImage }
func (CompositionContent) Type() CardType { return CardTypeComposition }
func (MixedContent) Type() CardType       { return CardTypeMixed }

func (c TextContent) Validate() error {
	if len(c.TextQAs) == 0 {
		return fmt.Errorf("%w: text card needs at least one question", ErrInvalidCard)
	}
	return nil
}

func (c ImageContent) Validate() error {
	if c.ImageID == "" {
		return fmt.Errorf("%w: image card needs an image id", ErrInvalidCard)
	}
	return nil
}

func (c CompositionContent) Validate() error {
	if strings.TrimSpace(c.SourceJapanese) == "" {
		return fmt.Errorf("%w: composition card needs source text", ErrInvalidCard)
	}
	return nil
}

func (c MixedContent) Validate() error {
	if c.ImageID == "" {
		return fmt.Errorf("%w: mixed card needs an image id", ErrInvalidCard)
	}
	return nil
}

func (c TextContent) normalized() CardContent {
	c.TextQAs = append([]TextQA{}, c.TextQAs...)
	return c
}

func (c ImageContent) normalized() CardContent {
	c.Masks = append([]Mask{}, c.Masks...)
	return c
}

func (c CompositionContent) normalized() CardContent {
	if c.ExtractedPhrases != nil {
		c.ExtractedPhrases = append([]TextQA{}, c.ExtractedPhrases...)
	}
	return c
}

func (c MixedContent) normalized() CardContent {
	c.Masks = append([]Mask{}, c.Masks...)
	c.TextQAs = append([]TextQA{}, c.TextQAs...)
	return c
}

// Card is one studyable unit. Content carries the variant.
type Card struct {
	ID        string
	DeckID    *string
	Name      string
	Tags      []string
	Memo      string
	CreatedAt time.Time
	UpdatedAt time.Time
	OwnerID   string
	IsDeleted bool
	Content   CardContent
}

// Type returns the variant tag, or "" for a card without content.
func (c Card) Type() CardType {
	if c.Content == nil {
		return ""
	}
	return c.Content.Type()
}

// Validate checks the variant's required fields.
func (c Card) Validate() error {
	if c.Content == nil {
		return fmt.Errorf("%w: card has no content", ErrInvalidCard)
	}
	return c.Content.Validate()
}

// ImageID returns the referenced blob id for image-bearing variants.
func (c Card) ImageID() (string, bool) {
	switch v := c.Content.(type) {
	case ImageContent:
		return v.ImageID, true
	case MixedContent:
		return v.ImageID, true
	}
	return "", false
}

// WithImageID returns a copy of the card that references another blob.
// Cards without an image are returned unchanged.
func (c Card) WithImageID(id string) Card {
	switch v := c.Content.(type) {
	case ImageContent:
		v.ImageID = id
		c.Content = v
	case MixedContent:
		v.ImageID = id
		c.Content = v
	}
	return c
}

// Clone returns a deep copy so that callers may mutate slices freely.
func (c Card) Clone() Card {
	out := c
	if c.DeckID != nil {
		d := *c.DeckID
		out.DeckID = &d
	}
	out.Tags = append([]string{}, c.Tags...)
	if c.Content != nil {
		out.Content = c.Content.normalized()
	}
	return out
}

// DeckIDValue returns the owning deck id or "" for an unassigned card.
func (c Card) DeckIDValue() string {
	if c.DeckID == nil {
		return ""
	}
	return *c.DeckID
}

func newCard(deckID, name string, content CardContent) (Card, error) {
	now := time.Now().UTC()
	c := Card{
		ID:        NewID(),
		Name:      name,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
		Content:   content.normalized(),
	}
	if deckID != "" {
		c.DeckID = &deckID
	}
	if err := c.Validate(); err != nil {
		return Card{}, err
	}
	return c, nil
}

// NewTextCard builds a text card. QA pairs without an id get one.
func NewTextCard(deckID, name string, qas []TextQA) (Card, error) {
	out := make([]TextQA, len(qas))
	for i, qa := range qas {
		if qa.ID == "" {
			qa.ID = NewShortID()
		}
		out[i] = qa
	}
	return newCard(deckID, name, TextContent{TextQAs: out})
}

// NewImageCard builds an image card without masks.
func NewImageCard(deckID, name, imageID string) (Card, error) {
	return newCard(deckID, name, ImageContent{ImageID: imageID})
}

// NewCompositionCard builds a composition card; translation and phrases may be filled later.
func NewCompositionCard(deckID, name, source, translated string) (Card, error) {
	return newCard(deckID, name, CompositionContent{SourceJapanese: source, TranslatedEnglish: translated})
}

// cardHeader is the wire form of the fields shared by all variants.
type cardHeader struct {
	ID        string    `json:"id"`
	DeckID    *string   `json:"deckId"`
	Name      string    `json:"name"`
	Type      CardType  `json:"type"`
	Tags      []string  `json:"tags"`
	Memo      string    `json:"memo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	OwnerID   string    `json:"ownerId,omitempty"`
	IsDeleted bool      `json:"isDeleted"`
}

// MarshalJSON writes the card as one flat object: shared fields plus the variant fields.
func (c Card) MarshalJSON() ([]byte, error) {
	if c.Content == nil {
		return nil, fmt.Errorf("%w: card %s has no content", ErrInvalidCard, c.ID)
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	head, err := json.Marshal(cardHeader{
		ID:        c.ID,
		DeckID:    c.DeckID,
		Name:      c.Name,
		Type:      c.Content.Type(),
		Tags:      tags,
		Memo:      c.Memo,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		OwnerID:   c.OwnerID,
		IsDeleted: c.IsDeleted,
	})
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(c.Content.normalized())
	if err != nil {
		return nil, err
	}
	return mergeObjects(head, body), nil
}

// UnmarshalJSON reads the flat wire form. Unknown card types are rejected; required
// fields are not checked here, see Validate.
func (c *Card) UnmarshalJSON(data []byte) error {
	var head cardHeader
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	content, err := DecodeContent(head.Type, data)
	if err != nil {
		return err
	}
	*c = Card{
		ID:        head.ID,
		DeckID:    head.DeckID,
		Name:      head.Name,
		Tags:      head.Tags,
		Memo:      head.Memo,
		CreatedAt: head.CreatedAt,
		UpdatedAt: head.UpdatedAt,
		OwnerID:   head.OwnerID,
		IsDeleted: head.IsDeleted,
		Content:   content,
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return nil
}

// DecodeContent decodes the variant fields of type t from a JSON object.
func DecodeContent(t CardType, data []byte) (CardContent, error) {
	var (
		content CardContent
		err     error
	)
	switch t {
	case CardTypeText:
		var v TextContent
		err = json.Unmarshal(data, &v)
		content = v
	case CardTypeImage:
		var v ImageContent
		err = json.Unmarshal(data, &v)
		content = v
	case CardTypeComposition:
		var v CompositionContent
		err = json.Unmarshal(data, &v)
		content = v
	case CardTypeMixed:
		var v MixedContent
		err = json.Unmarshal(data, &v)
		content = v
	default:
		return nil, fmt.Errorf("%w: unknown card type %q", ErrInvalidCard, t)
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

// mergeObjects concatenates the members of two encoded JSON objects.
func mergeObjects(a, b []byte) []byte {
	b = bytes.TrimSpace(b)
	if len(b) <= 2 {
		return a
	}
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a[:len(a)-1]...)
	out = append(out, ',')
	return append(out, b[1:]...)
}
