package repo

import (
	"encoding/json"
	"fmt"
	"time"

	"CardForge/internal/model"

	"gorm.io/datatypes"
)

// deckRecord is the decks table row.
type deckRecord struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	Type      string    `gorm:"not null"`
	OwnerID   string    `gorm:"index"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;index"`
}

func (deckRecord) TableName() string { return "decks" }

// cardRecord is the cards table row. Variant fields live in the Content JSON column.
type cardRecord struct {
	ID        string         `gorm:"primaryKey"`
	DeckID    *string        `gorm:"index"`
	Name      string         `gorm:"not null"`
	Type      string         `gorm:"not null"`
	Tags      datatypes.JSON `gorm:"not null"`
	Memo      string
	OwnerID   string
	Content   datatypes.JSON `gorm:"not null"`
	IsDeleted bool           `gorm:"not null;default:false;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime:false;index"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:false"`
}

func (cardRecord) TableName() string { return "cards" }

// imageRecord is the images table row.
type imageRecord struct {
	ID        string `gorm:"primaryKey"`
	Data      []byte `gorm:"not null"`
	MIMEType  string
	CreatedAt time.Time
}

func (imageRecord) TableName() string { return "images" }

func deckToRecord(d model.Deck) deckRecord {
	return deckRecord{
		ID:        d.ID,
		Name:      d.Name,
		Type:      string(d.Type),
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r deckRecord) toModel() model.Deck {
	return model.Deck{
		ID:        r.ID,
		Name:      r.Name,
		Type:      model.DeckType(r.Type),
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func cardToRecord(c model.Card) (cardRecord, error) {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return cardRecord{}, err
	}
	contentJSON, err := json.Marshal(c.Content)
	if err != nil {
		return cardRecord{}, err
	}
	return cardRecord{
		ID:        c.ID,
		DeckID:    c.DeckID,
		Name:      c.Name,
		Type:      string(c.Type()),
		Tags:      datatypes.JSON(tagsJSON),
		Memo:      c.Memo,
		OwnerID:   c.OwnerID,
		Content:   datatypes.JSON(contentJSON),
		IsDeleted: c.IsDeleted,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}, nil
}

func (r cardRecord) toModel() (model.Card, error) {
	content, err := model.DecodeContent(model.CardType(r.Type), r.Content)
	if err != nil {
		return model.Card{}, fmt.Errorf("card %s: %w", r.ID, err)
	}
	var tags []string
	if len(r.Tags) > 0 {
		if err := json.Unmarshal(r.Tags, &tags); err != nil {
			return model.Card{}, fmt.Errorf("card %s tags: %w", r.ID, err)
		}
	}
	if tags == nil {
		tags = []string{}
	}
	return model.Card{
		ID:        r.ID,
		DeckID:    r.DeckID,
		Name:      r.Name,
		Tags:      tags,
		Memo:      r.Memo,
		OwnerID:   r.OwnerID,
		IsDeleted: r.IsDeleted,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
		Content:   content,
	}, nil
}
