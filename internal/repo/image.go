package repo

import (
	"context"

	"CardForge/internal/model"

	"gorm.io/gorm"
)

// ImageRepository минимальный контракт доступа к блобам изображений.
type ImageRepository interface {
	// Create вставляет img; если id пуст, генерирует новый.
	Create(ctx context.Context, img *model.ImageBlob) error
	BulkCreate(ctx context.Context, imgs []model.ImageBlob) error
	GetByID(ctx context.Context, id string) (*model.ImageBlob, error)
}

type imageRepo struct {
	db *gorm.DB
}

func (r *imageRepo) Create(ctx context.Context, img *model.ImageBlob) error {
	if img.ID == "" {
		img.ID = model.NewID()
	}
	rec := imageRecord{ID: img.ID, Data: img.Data, MIMEType: img.MIMEType}
	return wrapErr("create image", r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *imageRepo) BulkCreate(ctx context.Context, imgs []model.ImageBlob) error {
	if len(imgs) == 0 {
		return nil
	}
	recs := make([]imageRecord, 0, len(imgs))
	for _, img := range imgs {
		if img.ID == "" {
			img.ID = model.NewID()
		}
		recs = append(recs, imageRecord{ID: img.ID, Data: img.Data, MIMEType: img.MIMEType})
	}
	return wrapErr("create images", r.db.WithContext(ctx).Create(&recs).Error)
}

func (r *imageRepo) GetByID(ctx context.Context, id string) (*model.ImageBlob, error) {
	var rec imageRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, wrapErr("get image", err)
	}
	return &model.ImageBlob{ID: rec.ID, Data: rec.Data, MIMEType: rec.MIMEType}, nil
}
