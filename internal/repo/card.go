package repo

import (
	"context"
	"fmt"
	"time"

	"CardForge/internal/model"

	"gorm.io/gorm"
)

// CardPatch lists the card fields to change. Nil fields are left as they are.
// Content must be of the card's own variant.
type CardPatch struct {
	Name    *string
	Tags    *[]string
	Memo    *string
	Content model.CardContent
}

// CardRepository stores cards of every variant.
type CardRepository interface {
	// Create validates and inserts c. Empty ID and zero timestamps are filled in.
	Create(ctx context.Context, c *model.Card) error
	// BulkCreate inserts all cards or none of them.
	BulkCreate(ctx context.Context, cards []model.Card) error
	// GetByID returns the card even when it is soft-deleted.
	GetByID(ctx context.Context, id string) (*model.Card, error)
	// ListByDeck returns the deck's live cards, oldest first.
	ListByDeck(ctx context.Context, deckID string) ([]model.Card, error)
	// ListDeleted returns the deck's soft-deleted cards, oldest first.
	ListDeleted(ctx context.Context, deckID string) ([]model.Card, error)
	Update(ctx context.Context, id string, patch CardPatch) (*model.Card, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	// MoveToDeck reassigns the listed cards to deckID.
	MoveToDeck(ctx context.Context, ids []string, deckID string) error
}

type cardRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func (r *cardRepo) prepare(c *model.Card) (cardRecord, error) {
	if err := c.Validate(); err != nil {
		return cardRecord{}, err
	}
	if c.ID == "" {
		c.ID = model.NewID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	return cardToRecord(*c)
}

func (r *cardRepo) Create(ctx context.Context, c *model.Card) error {
	rec, err := r.prepare(c)
	if err != nil {
		return err
	}
	return wrapErr("create card", r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *cardRepo) BulkCreate(ctx context.Context, cards []model.Card) error {
	if len(cards) == 0 {
		return nil
	}
	recs := make([]cardRecord, 0, len(cards))
	for i := range cards {
		rec, err := r.prepare(&cards[i])
		if err != nil {
			return err
		}
		recs = append(recs, rec)
	}
	return wrapErr("create cards", r.db.WithContext(ctx).Create(&recs).Error)
}

func (r *cardRepo) GetByID(ctx context.Context, id string) (*model.Card, error) {
	var rec cardRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, wrapErr("get card", err)
	}
	c, err := rec.toModel()
	if err != nil {
		return nil, wrapErr("get card", err)
	}
	return &c, nil
}

func (r *cardRepo) ListByDeck(ctx context.Context, deckID string) ([]model.Card, error) {
	return r.list(ctx, deckID, false)
}

func (r *cardRepo) ListDeleted(ctx context.Context, deckID string) ([]model.Card, error) {
	return r.list(ctx, deckID, true)
}

func (r *cardRepo) list(ctx context.Context, deckID string, deleted bool) ([]model.Card, error) {
	var recs []cardRecord
	err := r.db.WithContext(ctx).
		Where("deck_id = ? AND is_deleted = ?", deckID, deleted).
		Order("created_at").Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, wrapErr("list cards", err)
	}
	out := make([]model.Card, 0, len(recs))
	for _, rec := range recs {
		c, err := rec.toModel()
		if err != nil {
			return nil, wrapErr("list cards", err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *cardRepo) Update(ctx context.Context, id string, patch CardPatch) (*model.Card, error) {
	db := r.db.WithContext(ctx)
	var rec cardRecord
	if err := db.Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, wrapErr("update card", err)
	}
	c, err := rec.toModel()
	if err != nil {
		return nil, wrapErr("update card", err)
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Tags != nil {
		c.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.Memo != nil {
		c.Memo = *patch.Memo
	}
	if patch.Content != nil {
		if patch.Content.Type() != c.Type() {
			return nil, fmt.Errorf("%w: card %s is %s, cannot store %s content",
				model.ErrInvalidCard, id, c.Type(), patch.Content.Type())
		}
		c.Content = patch.Content
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	c.UpdatedAt = r.now()

	next, err := cardToRecord(c)
	if err != nil {
		return nil, wrapErr("update card", err)
	}
	if err := db.Save(&next).Error; err != nil {
		return nil, wrapErr("update card", err)
	}
	c = c.Clone()
	return &c, nil
}

func (r *cardRepo) SoftDelete(ctx context.Context, id string) error {
	return r.setDeleted(ctx, id, true)
}

func (r *cardRepo) Restore(ctx context.Context, id string) error {
	return r.setDeleted(ctx, id, false)
}

func (r *cardRepo) setDeleted(ctx context.Context, id string, deleted bool) error {
	res := r.db.WithContext(ctx).Model(&cardRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": deleted, "updated_at": r.now()})
	if res.Error != nil {
		return wrapErr("set card deleted", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("set card deleted %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *cardRepo) MoveToDeck(ctx context.Context, ids []string, deckID string) error {
	if len(ids) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&cardRecord{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"deck_id": deckID, "updated_at": r.now()})
	if res.Error != nil {
		return wrapErr("move cards", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("move cards: %w", ErrNotFound)
	}
	return nil
}
