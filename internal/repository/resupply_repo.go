package repository

import (
	"context"

	"tindahan-pos/internal/model"

	"gorm.io/gorm"
)

// ResupplyRepository is append-only: events are never updated or deleted
type ResupplyRepository interface {
	Create(tx *gorm.DB, event *model.ResupplyEvent) error
	FindByProductID(ctx context.Context, productID uint) ([]model.ResupplyEvent, error)
}

type resupplyRepo struct {
	db *gorm.DB
}

func NewResupplyRepo(db *gorm.DB) ResupplyRepository {
	return &resupplyRepo{db}
}

func (r *resupplyRepo) Create(tx *gorm.DB, event *model.ResupplyEvent) error {
	return tx.Create(event).Error
}

func (r *resupplyRepo) FindByProductID(ctx context.Context, productID uint) ([]model.ResupplyEvent, error) {
	var events []model.ResupplyEvent
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("resupply_date DESC, id DESC").
		Find(&events).Error
	return events, err
}
