package repository

import (
	"context"

	"tindahan-pos/internal/model"

	"gorm.io/gorm"
)

// SaleRepository is append-only: a sale and its items are written once
type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindByID(ctx context.Context, id uint) (*model.Sale, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create writes the header and its items in the caller's transaction
func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&sale, id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}
