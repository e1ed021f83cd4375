package repository

import (
	"context"

	"tindahan-pos/internal/model"

	"gorm.io/gorm"
)

type BackupRepository interface {
	Create(ctx context.Context, backup *model.Backup) error
	FindAll(ctx context.Context) ([]model.Backup, error)

	// Snapshot reads every catalog and ledger table inside one read transaction
	Snapshot(ctx context.Context) (*LedgerSnapshot, error)
}

type LedgerSnapshot struct {
	Suppliers []model.Supplier
	Products  []model.Product
	Inventory []model.Inventory
	Resupply  []model.ResupplyEvent
	Sales     []model.Sale
}

type backupRepo struct {
	db *gorm.DB
}

func NewBackupRepo(db *gorm.DB) BackupRepository {
	return &backupRepo{db}
}

func (r *backupRepo) Create(ctx context.Context, backup *model.Backup) error {
	return r.db.WithContext(ctx).Create(backup).Error
}

func (r *backupRepo) FindAll(ctx context.Context) ([]model.Backup, error) {
	var backups []model.Backup
	err := r.db.WithContext(ctx).Order("timestamp DESC, id DESC").Find(&backups).Error
	return backups, err
}

func (r *backupRepo) Snapshot(ctx context.Context) (*LedgerSnapshot, error) {
	var snap LedgerSnapshot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id ASC").Find(&snap.Suppliers).Error; err != nil {
			return err
		}
		if err := tx.Order("id ASC").Find(&snap.Products).Error; err != nil {
			return err
		}
		if err := tx.Order("product_id ASC").Find(&snap.Inventory).Error; err != nil {
			return err
		}
		if err := tx.Order("id ASC").Find(&snap.Resupply).Error; err != nil {
			return err
		}
		return tx.Preload("Items").Order("id ASC").Find(&snap.Sales).Error
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
