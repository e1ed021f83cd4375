package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tindahan-pos/internal/model"
	"tindahan-pos/internal/repository"
	"tindahan-pos/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BackupService interface {
	CreateBackup(ctx context.Context, userID *uint) (*model.Backup, error)
	ListBackups(ctx context.Context) ([]model.Backup, error)
}

type backupService struct {
	backupRepo repository.BackupRepository
	dir        string
	log        *logrus.Logger
	now        func() time.Time
}

func NewBackupService(backupRepo repository.BackupRepository, dir string, log *logrus.Logger) BackupService {
	return &backupService{
		backupRepo: backupRepo,
		dir:        dir,
		log:        log,
		now:        time.Now,
	}
}

// CreateBackup exports the catalog and ledger into one workbook under the backup directory
func (s *backupService) CreateBackup(ctx context.Context, userID *uint) (*model.Backup, error) {
	snap, err := s.backupRepo.Snapshot(ctx)
	if err != nil {
		logger.LogError(s.log, "backup", "CreateBackup", "read snapshot", nil, err)
		return nil, err
	}

	f, err := buildWorkbook(snapshotSheets(snap)...)
	if err != nil {
		logger.LogError(s.log, "backup", "CreateBackup", "build workbook", nil, err)
		return nil, err
	}
	defer f.Close()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	ts := s.now().UTC()
	location := filepath.Join(s.dir, fmt.Sprintf("backup-%s-%s.xlsx", ts.Format("20060102T150405Z"), uuid.NewString()))
	if err := f.SaveAs(location); err != nil {
		logger.LogError(s.log, "backup", "CreateBackup", "save workbook", location, err)
		return nil, err
	}

	backup := &model.Backup{UserID: userID, Timestamp: ts, Location: location}
	if err := s.backupRepo.Create(ctx, backup); err != nil {
		logger.LogError(s.log, "backup", "CreateBackup", "record backup", location, err)
		return nil, err
	}

	s.log.WithField("location", location).Info("backup written")
	return backup, nil
}

func (s *backupService) ListBackups(ctx context.Context) ([]model.Backup, error) {
	return s.backupRepo.FindAll(ctx)
}

func snapshotSheets(snap *repository.LedgerSnapshot) []sheetRows {
	products := sheetRows{Name: "Products", Headings: []string{"ID", "SKU", "Name", "Description", "UnitPrice", "SupplierID"}}
	for _, p := range snap.Products {
		products.Rows = append(products.Rows, []interface{}{
			p.ID, cellString(p.SKU), p.Name, p.Description, p.UnitPrice.InexactFloat64(), cellUint(p.SupplierID),
		})
	}

	suppliers := sheetRows{Name: "Suppliers", Headings: []string{"ID", "Name", "ContactInfo", "Address"}}
	for _, sp := range snap.Suppliers {
		suppliers.Rows = append(suppliers.Rows, []interface{}{sp.ID, sp.Name, sp.ContactInfo, sp.Address})
	}

	inventory := sheetRows{Name: "Inventory", Headings: []string{"ProductID", "Quantity", "Threshold", "ExpirationDate"}}
	for _, inv := range snap.Inventory {
		inventory.Rows = append(inventory.Rows, []interface{}{inv.ProductID, inv.Quantity, inv.Threshold, cellDate(inv.ExpirationDate)})
	}

	resupplies := sheetRows{Name: "Resupplies", Headings: []string{
		"ID", "ProductID", "SupplierID", "UserID", "Quantity", "UnitCost", "ResupplyDate", "ExpirationDate",
	}}
	for _, r := range snap.Resupply {
		resupplies.Rows = append(resupplies.Rows, []interface{}{
			r.ID, r.ProductID, cellUint(r.SupplierID), cellUint(r.UserID), r.Quantity,
			r.UnitCost.InexactFloat64(), r.ResupplyDate.Format(time.RFC3339), cellDate(r.ExpirationDate),
		})
	}

	sales := sheetRows{Name: "Sales", Headings: []string{
		"SaleID", "SaleDate", "UserID", "ItemID", "ProductID", "ProductName", "Quantity", "Amount", "StockoutReason",
	}}
	for _, sale := range snap.Sales {
		for _, item := range sale.Items {
			reason := ""
			if item.StockoutReason != nil {
				reason = string(*item.StockoutReason)
			}
			sales.Rows = append(sales.Rows, []interface{}{
				sale.ID, sale.SaleDate.Format(time.RFC3339), cellUint(sale.UserID), item.ID, item.ProductID,
				item.ProductName, item.Quantity, item.Amount.InexactFloat64(), reason,
			})
		}
	}

	return []sheetRows{products, suppliers, inventory, resupplies, sales}
}
