package service

import (
	"context"
	"fmt"

	"CardForge/internal/model"
	"CardForge/internal/render"
	"CardForge/internal/repo"
)

// MinMaskSize is the smallest accepted mask side, in image pixels.
const MinMaskSize = 5

// AddMask draws a question mask on an image card. The rect is clipped to the image;
// an empty label becomes "Mask N".
func (s *CardService) AddMask(ctx context.Context, cardID string, rect model.Rect, label string) (*model.Card, error) {
	c, content, err := s.imageCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	blob, err := s.store.Images().GetByID(ctx, content.ImageID)
	if err != nil {
		return nil, fmt.Errorf("card %s image: %w", cardID, err)
	}
	w, h, err := render.Dimensions(blob.Data)
	if err != nil {
		return nil, err
	}
	rect = render.ClampRect(rect, w, h)
	if rect.Width <= MinMaskSize || rect.Height <= MinMaskSize {
		return nil, validationf("mask must be larger than %dx%d pixels inside the image", MinMaskSize, MinMaskSize)
	}
	if label == "" {
		label = fmt.Sprintf("Mask %d", len(content.Masks)+1)
	}
	content.Masks = append(content.Masks, model.Mask{
		ID:         model.NewShortID(),
		Label:      label,
		Rect:       rect,
		IsQuestion: true,
	})
	return s.saveMasks(ctx, c.ID, content)
}

// LinkMasks puts the given masks into one fresh group.
func (s *CardService) LinkMasks(ctx context.Context, cardID string, maskIDs []string) (*model.Card, error) {
	c, content, err := s.imageCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	masks, err := model.LinkMasks(content.Masks, maskIDs, model.NewShortID())
	if err != nil {
		return nil, asValidation(err)
	}
	content.Masks = masks
	return s.saveMasks(ctx, c.ID, content)
}

// UnlinkGroup dissolves a mask group; its masks become ungrouped.
func (s *CardService) UnlinkGroup(ctx context.Context, cardID, groupID string) (*model.Card, error) {
	c, content, err := s.imageCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	content.Masks = model.UnlinkGroup(content.Masks, groupID)
	return s.saveMasks(ctx, c.ID, content)
}

// SetMaskQuestion toggles whether a mask hides its region during a quiz.
func (s *CardService) SetMaskQuestion(ctx context.Context, cardID, maskID string, isQuestion bool) (*model.Card, error) {
	c, content, err := s.imageCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range content.Masks {
		if content.Masks[i].ID == maskID {
			content.Masks[i].IsQuestion = isQuestion
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("mask %s: %w", maskID, repo.ErrNotFound)
	}
	return s.saveMasks(ctx, c.ID, content)
}

// DeleteMask removes one mask.
func (s *CardService) DeleteMask(ctx context.Context, cardID, maskID string) (*model.Card, error) {
	c, content, err := s.imageCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	kept := make([]model.Mask, 0, len(content.Masks))
	for _, m := range content.Masks {
		if m.ID != maskID {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(content.Masks) {
		return nil, fmt.Errorf("mask %s: %w", maskID, repo.ErrNotFound)
	}
	content.Masks = kept
	return s.saveMasks(ctx, c.ID, content)
}

func (s *CardService) imageCard(ctx context.Context, id string) (*model.Card, model.ImageContent, error) {
	c, err := s.store.Cards().GetByID(ctx, id)
	if err != nil {
		return nil, model.ImageContent{}, err
	}
	content, ok := c.Content.(model.ImageContent)
	if !ok {
		return nil, model.ImageContent{}, validationf("card %s is %s, not image", id, c.Type())
	}
	content.Masks = append([]model.Mask{}, content.Masks...)
	return c, content, nil
}

func (s *CardService) saveMasks(ctx context.Context, cardID string, content model.ImageContent) (*model.Card, error) {
	c, err := s.store.Cards().Update(ctx, cardID, repo.CardPatch{Content: content})
	if err != nil {
		return nil, asValidation(err)
	}
	s.log.Debugw("masks saved", "card", cardID, "masks", len(content.Masks))
	return c, nil
}
