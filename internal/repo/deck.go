package repo

import (
	"context"
	"time"

	"CardForge/internal/model"

	"gorm.io/gorm"
)

// DeckPatch lists the deck fields to change. Nil fields are left as they are.
type DeckPatch struct {
	Name *string
	Type *model.DeckType
}

// DeckRepository stores decks. Decks are never hard-deleted.
type DeckRepository interface {
	// Create inserts d. Empty ID and zero timestamps are filled in and written back to d.
	Create(ctx context.Context, d *model.Deck) error
	GetByID(ctx context.Context, id string) (*model.Deck, error)
	// List returns every deck, most recently updated first.
	List(ctx context.Context) ([]model.Deck, error)
	// Update applies patch and stamps updatedAt.
	Update(ctx context.Context, id string, patch DeckPatch) (*model.Deck, error)
}

type deckRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func (r *deckRepo) Create(ctx context.Context, d *model.Deck) error {
	if d.ID == "" {
		d.ID = model.NewID()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = r.now()
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}
	rec := deckToRecord(*d)
	return wrapErr("create deck", r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *deckRepo) GetByID(ctx context.Context, id string) (*model.Deck, error) {
	var rec deckRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, wrapErr("get deck", err)
	}
	d := rec.toModel()
	return &d, nil
}

func (r *deckRepo) List(ctx context.Context) ([]model.Deck, error) {
	var recs []deckRecord
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Order("id").Find(&recs).Error; err != nil {
		return nil, wrapErr("list decks", err)
	}
	out := make([]model.Deck, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toModel())
	}
	return out, nil
}

func (r *deckRepo) Update(ctx context.Context, id string, patch DeckPatch) (*model.Deck, error) {
	db := r.db.WithContext(ctx)
	var rec deckRecord
	if err := db.Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, wrapErr("update deck", err)
	}
	if patch.Name != nil {
		rec.Name = *patch.Name
	}
	if patch.Type != nil {
		rec.Type = string(*patch.Type)
	}
	rec.UpdatedAt = r.now()
	if err := db.Save(&rec).Error; err != nil {
		return nil, wrapErr("update deck", err)
	}
	d := rec.toModel()
	return &d, nil
}
