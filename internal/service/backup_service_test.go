package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tindahan-pos/internal/repository"
	"tindahan-pos/pkg/logger"

	"github.com/xuri/excelize/v2"
)

func TestCreateBackup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.addSupplier(t, "Supplier")
	p := f.addProduct(t, "Rice 5kg", "250", &supplier.ID)
	f.resupply(t, p.ID, supplier.ID, 8, "2026-02-01", 2)
	if _, err := f.inventory.Sell(ctx, &SaleRequest{Items: []SaleLine{{ProductID: p.ID, Quantity: 3}}}); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}

	dir := filepath.Join(t.TempDir(), "backups")
	svc := NewBackupService(repository.NewBackupRepo(f.db), dir, logger.Discard()).(*backupService)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC) }

	userID := uint(1)
	backup, err := svc.CreateBackup(ctx, &userID)
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}
	if filepath.Dir(backup.Location) != dir {
		t.Errorf("location = %q, want inside %q", backup.Location, dir)
	}
	if _, err := os.Stat(backup.Location); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	wb, err := excelize.OpenFile(backup.Location)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer wb.Close()

	wantRows := map[string]int{"Products": 2, "Suppliers": 2, "Inventory": 2, "Resupplies": 2, "Sales": 2}
	for sheet, want := range wantRows {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			t.Errorf("GetRows(%q) error = %v", sheet, err)
			continue
		}
		if len(rows) != want {
			t.Errorf("sheet %q rows = %d, want %d", sheet, len(rows), want)
		}
	}

	inv, err := wb.GetRows("Inventory")
	if err != nil {
		t.Fatalf("GetRows(Inventory) error = %v", err)
	}
	if inv[1][1] != "5" || inv[1][3] != "2026-02-01" {
		t.Errorf("inventory row = %v, want quantity 5 expiring 2026-02-01", inv[1])
	}

	backups, err := svc.ListBackups(ctx)
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 1 || backups[0].Location != backup.Location {
		t.Errorf("ListBackups() = %+v, want the new backup", backups)
	}
	if backups[0].UserID == nil || *backups[0].UserID != userID {
		t.Errorf("backup user = %v, want %d", backups[0].UserID, userID)
	}
}
