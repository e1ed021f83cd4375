package service

import (
	"context"
	"errors"
	"testing"

	"tindahan-pos/internal/model"

	"github.com/shopspring/decimal"
)

func TestAddProductDuplicateName(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "Rice 1kg", "50.00", nil)

	_, err := f.catalog.AddProduct(context.Background(), &ProductInput{
		Name:      "Rice 1kg",
		UnitPrice: decimal.RequireFromString("55.00"),
	}, nil)
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("AddProduct() error = %v, want ErrDuplicateName", err)
	}
}

func TestAddProductSKU(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.catalog.AddProduct(ctx, &ProductInput{Name: "Cola", SKU: ptr("COLA-330"), UnitPrice: decimal.NewFromInt(25)}, nil)
	if err != nil {
		t.Fatalf("AddProduct() error = %v", err)
	}
	if first.SKU == nil || *first.SKU != "COLA-330" {
		t.Errorf("sku = %v, want COLA-330", first.SKU)
	}

	_, err = f.catalog.AddProduct(ctx, &ProductInput{Name: "Cola Zero", SKU: ptr("COLA-330"), UnitPrice: decimal.NewFromInt(25)}, nil)
	if !errors.Is(err, ErrDuplicateSku) {
		t.Errorf("AddProduct() same sku error = %v, want ErrDuplicateSku", err)
	}

	// blank SKUs are stored as NULL and never collide
	for _, name := range []string{"Loose Candy", "Loose Peanuts"} {
		p, err := f.catalog.AddProduct(ctx, &ProductInput{Name: name, SKU: ptr("  "), UnitPrice: decimal.NewFromInt(1)}, nil)
		if err != nil {
			t.Fatalf("AddProduct(%q) error = %v", name, err)
		}
		if p.SKU != nil {
			t.Errorf("AddProduct(%q) sku = %q, want nil", name, *p.SKU)
		}
	}
}

func TestAddProductValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  ProductInput
		want error
	}{
		{"blank name", ProductInput{Name: "   ", UnitPrice: decimal.NewFromInt(1)}, ErrInvalidInput},
		{"negative price", ProductInput{Name: "Broken", UnitPrice: decimal.NewFromInt(-1)}, ErrInvalidInput},
		{"unknown supplier", ProductInput{Name: "Orphan", UnitPrice: decimal.NewFromInt(1), SupplierID: ptr(uint(99))}, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := f.catalog.AddProduct(context.Background(), &req, nil); !errors.Is(err, tt.want) {
				t.Errorf("AddProduct() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.addSupplier(t, "Distributor")
	oil := f.addProduct(t, "Cooking Oil", "90", nil)
	f.addProduct(t, "Soy Sauce", "35", nil)

	price := decimal.RequireFromString("95.50")
	updated, err := f.catalog.UpdateProduct(ctx, oil.ID, &ProductUpdate{UnitPrice: &price, SupplierID: &supplier.ID}, nil)
	if err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}
	if !updated.UnitPrice.Equal(price) {
		t.Errorf("unit price = %s, want %s", updated.UnitPrice, price)
	}
	if updated.Name != "Cooking Oil" {
		t.Errorf("name = %q, want unchanged", updated.Name)
	}
	if updated.SupplierID == nil || *updated.SupplierID != supplier.ID {
		t.Errorf("supplier = %v, want %d", updated.SupplierID, supplier.ID)
	}

	if _, err := f.catalog.UpdateProduct(ctx, oil.ID, &ProductUpdate{Name: ptr("Soy Sauce")}, nil); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("rename onto existing name error = %v, want ErrDuplicateName", err)
	}
	if _, err := f.catalog.UpdateProduct(ctx, 5000, &ProductUpdate{Name: ptr("Ghost")}, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateProduct(unknown) error = %v, want ErrNotFound", err)
	}

	detached, err := f.catalog.UpdateProduct(ctx, oil.ID, &ProductUpdate{SupplierID: ptr(uint(0))}, nil)
	if err != nil {
		t.Fatalf("UpdateProduct() detach error = %v", err)
	}
	if detached.SupplierID != nil {
		t.Errorf("supplier after detach = %v, want nil", *detached.SupplierID)
	}
}

func TestDeleteProductKeepsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.addSupplier(t, "Supplier")
	p := f.addProduct(t, "Instant Coffee", "7", nil)
	f.resupply(t, p.ID, supplier.ID, 10, "2026-01-01", 2)
	if _, err := f.inventory.Sell(ctx, &SaleRequest{Items: []SaleLine{{ProductID: p.ID, Quantity: 3}}}); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}

	if err := f.catalog.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct() error = %v", err)
	}
	if _, err := f.catalog.GetProduct(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProduct() after delete error = %v, want ErrNotFound", err)
	}
	if got := f.count(t, &model.Inventory{}); got != 0 {
		t.Errorf("inventory rows = %d, want 0", got)
	}
	if got := f.count(t, &model.ResupplyEvent{}); got != 1 {
		t.Errorf("resupply events = %d, want 1", got)
	}

	history, err := f.reporting.SalesHistory(ctx, Page{})
	if err != nil {
		t.Fatalf("SalesHistory() error = %v", err)
	}
	if len(history) != 1 || history[0].ProductName != "Instant Coffee" {
		t.Errorf("SalesHistory() = %+v, want one row named Instant Coffee", history)
	}

	if err := f.catalog.DeleteProduct(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteProduct() error = %v, want ErrNotFound", err)
	}
}

func TestSupplierLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	supplier := f.addSupplier(t, "Farm Fresh")
	updated, err := f.catalog.UpdateSupplier(ctx, supplier.ID, &SupplierInput{Name: "Farm Fresh Inc", ContactInfo: "0917 000 0000"}, nil)
	if err != nil {
		t.Fatalf("UpdateSupplier() error = %v", err)
	}
	if updated.Name != "Farm Fresh Inc" || updated.ContactInfo != "0917 000 0000" {
		t.Errorf("UpdateSupplier() = %+v", updated)
	}

	if _, err := f.catalog.AddSupplier(ctx, &SupplierInput{Name: ""}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("AddSupplier(blank) error = %v, want ErrInvalidInput", err)
	}
	if _, err := f.catalog.UpdateSupplier(ctx, 404, &SupplierInput{Name: "Nobody"}, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateSupplier(unknown) error = %v, want ErrNotFound", err)
	}

	p := f.addProduct(t, "Lettuce", "40", &supplier.ID)
	if err := f.catalog.DeleteSupplier(ctx, supplier.ID); !errors.Is(err, ErrSupplierInUse) {
		t.Errorf("DeleteSupplier() in use error = %v, want ErrSupplierInUse", err)
	}

	if err := f.catalog.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct() error = %v", err)
	}
	if err := f.catalog.DeleteSupplier(ctx, supplier.ID); err != nil {
		t.Errorf("DeleteSupplier() error = %v", err)
	}
	if err := f.catalog.DeleteSupplier(ctx, supplier.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteSupplier() twice error = %v, want ErrNotFound", err)
	}

	suppliers, err := f.catalog.ListSuppliers(ctx)
	if err != nil {
		t.Fatalf("ListSuppliers() error = %v", err)
	}
	if len(suppliers) != 0 {
		t.Errorf("ListSuppliers() = %d, want 0", len(suppliers))
	}
}
