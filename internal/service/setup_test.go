package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"tindahan-pos/internal/model"
	"tindahan-pos/internal/repository"
	"tindahan-pos/internal/ws"
	"tindahan-pos/pkg/database"
	"tindahan-pos/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.ConnectSQLite("file:"+name+"?mode=memory&cache=shared", gormlogger.Silent)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) ofType(eventType string) []ws.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []ws.Event
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fixture wires every ledger service against one in-memory database
type fixture struct {
	db        *gorm.DB
	catalog   CatalogService
	inventory *inventoryService
	reporting *reportingService
	invRepo   repository.InventoryRepository
	events    *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	log := logger.Discard()
	events := &recordingPublisher{}

	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	invRepo := repository.NewInventoryRepo(db)

	return &fixture{
		db:      db,
		catalog: NewCatalogService(db, productRepo, supplierRepo, invRepo, events, log),
		inventory: NewInventoryService(db, productRepo, supplierRepo, invRepo,
			repository.NewResupplyRepo(db), repository.NewSaleRepo(db), events, log).(*inventoryService),
		reporting: NewReportingService(repository.NewReportRepo(db), time.UTC, log).(*reportingService),
		invRepo:   invRepo,
		events:    events,
	}
}

// setClock pins "now" for every service in the fixture
func (f *fixture) setClock(now time.Time) {
	f.inventory.now = func() time.Time { return now }
	f.reporting.now = func() time.Time { return now }
}

func (f *fixture) addSupplier(t *testing.T, name string) *model.Supplier {
	t.Helper()
	s, err := f.catalog.AddSupplier(context.Background(), &SupplierInput{Name: name}, nil)
	if err != nil {
		t.Fatalf("AddSupplier(%q) error = %v", name, err)
	}
	return s
}

func (f *fixture) addProduct(t *testing.T, name, price string, supplierID *uint) *model.Product {
	t.Helper()
	p, err := f.catalog.AddProduct(context.Background(), &ProductInput{
		Name:       name,
		UnitPrice:  decimal.RequireFromString(price),
		SupplierID: supplierID,
	}, nil)
	if err != nil {
		t.Fatalf("AddProduct(%q) error = %v", name, err)
	}
	return p
}

func (f *fixture) resupply(t *testing.T, productID, supplierID uint, qty int, expiration string, threshold int) {
	t.Helper()
	cost := decimal.RequireFromString("1.00")
	if _, err := f.inventory.Resupply(context.Background(), &ResupplyRequest{
		ProductID:      productID,
		SupplierID:     supplierID,
		Quantity:       qty,
		UnitCost:       &cost,
		ExpirationDate: expiration,
		Threshold:      &threshold,
	}); err != nil {
		t.Fatalf("Resupply(product %d, qty %d) error = %v", productID, qty, err)
	}
}

func (f *fixture) quantity(t *testing.T, productID uint) int {
	t.Helper()
	inv, err := f.invRepo.FindByProductID(context.Background(), productID)
	if err != nil {
		t.Fatalf("FindByProductID(%d) error = %v", productID, err)
	}
	return inv.Quantity
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count error = %v", err)
	}
	return n
}

func ptr[T any](v T) *T {
	return &v
}
