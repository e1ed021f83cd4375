package repository

import (
	"context"

	"tindahan-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository is the current-state half of the ledger.
// Mutating methods take the caller's transaction.
type InventoryRepository interface {
	FindAll(ctx context.Context) ([]model.InventoryView, error)
	FindByProductID(ctx context.Context, productID uint) (*model.Inventory, error)

	LockByProductID(tx *gorm.DB, productID uint) (*model.Inventory, error)
	InsertIfAbsent(tx *gorm.DB, inv *model.Inventory) error
	Increment(tx *gorm.DB, productID uint, quantity int) error
	DecrementIfAvailable(tx *gorm.DB, productID uint, quantity int) (bool, error)
	DeleteByProductID(tx *gorm.DB, productID uint) error
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) FindAll(ctx context.Context) ([]model.InventoryView, error) {
	var rows []model.InventoryView
	err := r.db.WithContext(ctx).
		Table("inventory AS i").
		Select("i.product_id, p.name, p.sku, i.quantity, i.threshold, i.expiration_date").
		Joins("JOIN products p ON p.id = i.product_id").
		Order("p.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *inventoryRepo) FindByProductID(ctx context.Context, productID uint) (*model.Inventory, error) {
	var inv model.Inventory
	if err := r.db.WithContext(ctx).First(&inv, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// LockByProductID reads the row with SELECT ... FOR UPDATE (sqlite has no row locks and skips the clause)
func (r *inventoryRepo) LockByProductID(tx *gorm.DB, productID uint) (*model.Inventory, error) {
	var inv model.Inventory
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&inv, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// InsertIfAbsent creates the row; an existing row is left untouched
func (r *inventoryRepo) InsertIfAbsent(tx *gorm.DB, inv *model.Inventory) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoNothing: true,
	}).Create(inv).Error
}

func (r *inventoryRepo) Increment(tx *gorm.DB, productID uint, quantity int) error {
	result := tx.Model(&model.Inventory{}).
		Where("product_id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementIfAvailable subtracts quantity only while enough stock remains (compare-and-decrement).
// It reports false when the row is missing or holds less than quantity.
func (r *inventoryRepo) DecrementIfAvailable(tx *gorm.DB, productID uint, quantity int) (bool, error) {
	result := tx.Model(&model.Inventory{}).
		Where("product_id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *inventoryRepo) DeleteByProductID(tx *gorm.DB, productID uint) error {
	return tx.Where("product_id = ?", productID).Delete(&model.Inventory{}).Error
}
