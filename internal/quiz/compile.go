// Package quiz turns cards into atomic quiz items and runs self-graded sessions over them.
package quiz

import (
	"math/rand/v2"
	"strings"

	"CardForge/internal/model"
)

// ItemKind tells how an item is presented.
type ItemKind string

const (
	KindText        ItemKind = "text"
	KindImage       ItemKind = "image"
	KindComposition ItemKind = "composition"
)

// FallbackQAID identifies the item built from a composition card without extracted phrases.
const FallbackQAID = "main"

// Item is one question: a QA pair of a text or composition card, or a mask group of an image card.
type Item struct {
	Card  model.Card
	QA    *model.TextQA
	Masks []model.Mask
	Kind  ItemKind
}

// Key identifies the item within its card's deck.
func (it Item) Key() string {
	switch {
	case it.QA != nil:
		return it.Card.ID + "/" + it.QA.ID
	case len(it.Masks) > 0 && it.Masks[0].GroupID != "":
		return it.Card.ID + "/g/" + it.Masks[0].GroupID
	case len(it.Masks) > 0:
		return it.Card.ID + "/m/" + it.Masks[0].ID
	}
	return it.Card.ID
}

// Prompt returns the question text for text and composition items.
func (it Item) Prompt() string {
	if it.QA == nil {
		return ""
	}
	return it.QA.Question
}

// Answer returns the answer text for text and composition items.
func (it Item) Answer() string {
	if it.QA == nil {
		return ""
	}
	return it.QA.Answer
}

// FocusMasks returns the masks drawn for an image item: the item's own masks, each with
// its stored question flag. Other masks on the card are not drawn. Non-image items return nil.
func (it Item) FocusMasks() []model.Mask {
	if it.Kind != KindImage || len(it.Masks) == 0 {
		return nil
	}
	return append([]model.Mask(nil), it.Masks...)
}

// Compile flattens cards into items, keeping card order and the order of QAs and masks
// inside each card. Deleted cards, mixed cards and cards missing required fields yield nothing.
func Compile(cards []model.Card) []Item {
	var items []Item
	for _, card := range cards {
		if card.IsDeleted || card.Content == nil {
			continue
		}
		switch content := card.Content.(type) {
		case model.TextContent:
			for i := range content.TextQAs {
				qa := content.TextQAs[i]
				items = append(items, Item{Card: card, QA: &qa, Kind: KindText})
			}
		case model.CompositionContent:
			if strings.TrimSpace(content.SourceJapanese) == "" {
				continue
			}
			if len(content.ExtractedPhrases) == 0 {
				items = append(items, Item{
					Card: card,
					QA: &model.TextQA{
						ID:       FallbackQAID,
						Question: content.SourceJapanese,
						Answer:   content.TranslatedEnglish,
					},
					Kind: KindComposition,
				})
				continue
			}
			for i := range content.ExtractedPhrases {
				qa := content.ExtractedPhrases[i]
				items = append(items, Item{Card: card, QA: &qa, Kind: KindComposition})
			}
		case model.ImageContent:
			if content.ImageID == "" {
				continue
			}
			groups, ungrouped := model.MaskGroups(content.Masks)
			for _, g := range groups {
				items = append(items, Item{Card: card, Masks: g, Kind: KindImage})
			}
			for _, m := range ungrouped {
				items = append(items, Item{Card: card, Masks: []model.Mask{m}, Kind: KindImage})
			}
		}
	}
	return items
}

// Shuffle returns a uniformly random permutation of items in a new slice.
func Shuffle(items []Item) []Item {
	return ShuffleWith(rand.IntN, items)
}

// ShuffleWith is Shuffle with a caller supplied source: intn(n) must return a value in [0, n).
func ShuffleWith(intn func(n int) int, items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
