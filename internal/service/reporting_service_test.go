package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"tindahan-pos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// stock writes an inventory row directly so report boundaries can be set exactly
func (f *fixture) stock(t *testing.T, name string, quantity, threshold int, expiration *time.Time) *model.Product {
	t.Helper()
	p := f.addProduct(t, name, "1", nil)
	inv := model.Inventory{ProductID: p.ID, Quantity: quantity, Threshold: threshold, ExpirationDate: expiration}
	if err := f.db.Create(&inv).Error; err != nil {
		t.Fatalf("create inventory for %q: %v", name, err)
	}
	return p
}

// sale writes a sale with one item at the given instant
func (f *fixture) sale(t *testing.T, productID uint, at time.Time, qty int, amount string) *model.Sale {
	t.Helper()
	s := model.Sale{SaleDate: at, Items: []model.SaleItem{{
		ProductID: productID,
		Quantity:  qty,
		Amount:    decimal.RequireFromString(amount),
	}}}
	if err := f.db.Create(&s).Error; err != nil {
		t.Fatalf("create sale: %v", err)
	}
	return &s
}

func names(items []model.InventoryView) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, it := range items {
		out[it.Name] = true
	}
	return out
}

func TestLowStockItemsBoundary(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		quantity  int
		threshold int
		low       bool
	}{
		{"equal", 5, 5, true},
		{"below", 4, 5, true},
		{"above", 6, 5, false},
		{"empty with zero threshold", 0, 0, true},
		{"one over zero threshold", 1, 0, false},
	}
	for _, tt := range tests {
		f.stock(t, tt.name, tt.quantity, tt.threshold, nil)
	}

	items, err := f.reporting.LowStockItems(context.Background())
	if err != nil {
		t.Fatalf("LowStockItems() error = %v", err)
	}
	got := names(items)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got[tt.name] != tt.low {
				t.Errorf("LowStockItems() contains %q = %v, want %v", tt.name, got[tt.name], tt.low)
			}
		})
	}
	if len(items) != 3 {
		t.Errorf("LowStockItems() returned %d items, want 3", len(items))
	}
}

func TestExpiredItemsBoundary(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "day before", 10, 0, date(2025, 6, 9))
	f.stock(t, "same day", 10, 0, date(2025, 6, 10))
	f.stock(t, "day after", 10, 0, date(2025, 6, 11))
	f.stock(t, "no expiry", 10, 0, nil)

	tests := []struct {
		name string
		asOf time.Time
		want []string
	}{
		{"midnight", *date(2025, 6, 10), []string{"day before", "same day"}},
		{"late in the day", time.Date(2025, 6, 10, 22, 15, 0, 0, time.UTC), []string{"day before", "same day"}},
		{"before everything", *date(2025, 1, 1), nil},
		{"after everything", *date(2030, 1, 1), []string{"day before", "same day", "day after"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := f.reporting.ExpiredItems(context.Background(), tt.asOf)
			if err != nil {
				t.Fatalf("ExpiredItems() error = %v", err)
			}
			got := names(items)
			if len(items) != len(tt.want) {
				t.Errorf("ExpiredItems(%v) returned %d items, want %d", tt.asOf, len(items), len(tt.want))
			}
			for _, n := range tt.want {
				if !got[n] {
					t.Errorf("ExpiredItems(%v) missing %q", tt.asOf, n)
				}
			}
		})
	}
}

func TestExpiredItemsDefaultsToToday(t *testing.T) {
	f := newFixture(t)
	f.setClock(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
	f.stock(t, "today", 1, 0, date(2025, 6, 10))
	f.stock(t, "tomorrow", 1, 0, date(2025, 6, 11))

	items, err := f.reporting.ExpiredItems(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("ExpiredItems() error = %v", err)
	}
	if len(items) != 1 || items[0].Name != "today" {
		t.Errorf("ExpiredItems() = %+v, want only today", items)
	}
}

func TestTodaysSalesTotal(t *testing.T) {
	f := newFixture(t)
	f.reporting.loc = time.FixedZone("UTC+8", 8*60*60)
	// 09:00 local on 10 June; the local day runs 9 June 16:00 to 10 June 16:00 UTC
	f.setClock(time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC))

	total, err := f.reporting.TodaysSalesTotal(context.Background())
	if err != nil {
		t.Fatalf("TodaysSalesTotal() error = %v", err)
	}
	if !total.IsZero() {
		t.Errorf("TodaysSalesTotal() with no sales = %s, want 0", total)
	}

	p := f.stock(t, "Bread", 100, 0, nil)
	f.sale(t, p.ID, time.Date(2025, 6, 9, 15, 59, 0, 0, time.UTC), 1, "1000")
	f.sale(t, p.ID, time.Date(2025, 6, 9, 16, 0, 0, 0, time.UTC), 1, "12.50")
	f.sale(t, p.ID, time.Date(2025, 6, 10, 15, 59, 59, 0, time.UTC), 2, "7.25")
	f.sale(t, p.ID, time.Date(2025, 6, 10, 16, 0, 0, 0, time.UTC), 1, "2000")

	total, err = f.reporting.TodaysSalesTotal(context.Background())
	if err != nil {
		t.Fatalf("TodaysSalesTotal() error = %v", err)
	}
	if !total.Equal(decimal.RequireFromString("19.75")) {
		t.Errorf("TodaysSalesTotal() = %s, want 19.75", total)
	}
}

func TestTodaysSalesTotalIsExactForCents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.addSupplier(t, "Sari-sari Wholesale")
	candy := f.addProduct(t, "Candy", "0.10", nil)
	gum := f.addProduct(t, "Gum", "0.20", nil)
	f.resupply(t, candy.ID, supplier.ID, 10, "2026-01-01", 0)
	f.resupply(t, gum.ID, supplier.ID, 10, "2026-01-01", 0)

	receipt, err := f.inventory.Sell(ctx, &SaleRequest{Items: []SaleLine{
		{ProductID: candy.ID, Quantity: 1},
		{ProductID: gum.ID, Quantity: 1},
	}})
	if err != nil {
		t.Fatalf("Sell() error = %v", err)
	}

	want := decimal.RequireFromString("0.30")
	total, err := f.reporting.TodaysSalesTotal(ctx)
	if err != nil {
		t.Fatalf("TodaysSalesTotal() error = %v", err)
	}
	if !total.Equal(want) || !total.Equal(receipt.Total) {
		t.Errorf("TodaysSalesTotal() = %s, want %s (receipt %s)", total, want, receipt.Total)
	}

	stats, err := f.reporting.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats() error = %v", err)
	}
	if !stats.SalesToday.Equal(want) {
		t.Errorf("DashboardStats().SalesToday = %s, want %s", stats.SalesToday, want)
	}
}

func TestSalesHistoryOrdering(t *testing.T) {
	f := newFixture(t)
	p := f.stock(t, "Soda", 100, 0, nil)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	var ids []uint
	for i := 0; i < 4; i++ {
		s := f.sale(t, p.ID, base.Add(time.Duration(i)*time.Hour), 1, "10")
		ids = append(ids, s.ID)
	}

	rows, err := f.reporting.SalesHistory(context.Background(), Page{})
	if err != nil {
		t.Fatalf("SalesHistory() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("SalesHistory() returned %d rows, want 4", len(rows))
	}
	for i, row := range rows {
		if want := ids[len(ids)-1-i]; row.SaleID != want {
			t.Errorf("row %d sale id = %d, want %d", i, row.SaleID, want)
		}
		if row.ProductName != "Soda" {
			t.Errorf("row %d product = %q, want Soda", i, row.ProductName)
		}
	}

	page, err := f.reporting.SalesHistory(context.Background(), Page{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("SalesHistory(page) error = %v", err)
	}
	if len(page) != 2 || page[0].SaleID != ids[2] || page[1].SaleID != ids[1] {
		t.Errorf("SalesHistory(limit 2, offset 1) = %+v, want sales %d and %d", page, ids[2], ids[1])
	}

	if _, err := f.reporting.SalesHistory(context.Background(), Page{Limit: -1}); err == nil {
		t.Error("SalesHistory(limit -1) error = nil, want ErrInvalidInput")
	}
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	f.setClock(now)

	low := f.stock(t, "Low", 2, 5, nil)
	f.stock(t, "Expired", 50, 5, date(2025, 6, 1))
	f.stock(t, "Healthy", 50, 5, date(2026, 1, 1))
	f.sale(t, low.ID, now.Add(-time.Hour), 1, "15.00")

	stats, err := f.reporting.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats() error = %v", err)
	}
	if stats.TotalProducts != 3 {
		t.Errorf("TotalProducts = %d, want 3", stats.TotalProducts)
	}
	if stats.LowStockCount != 1 || stats.ExpiredCount != 1 {
		t.Errorf("LowStockCount, ExpiredCount = %d, %d, want 1, 1", stats.LowStockCount, stats.ExpiredCount)
	}
	if !stats.SalesToday.Equal(decimal.NewFromInt(15)) {
		t.Errorf("SalesToday = %s, want 15", stats.SalesToday)
	}
	if len(stats.Notifications) != 2 {
		t.Fatalf("Notifications = %d, want 2", len(stats.Notifications))
	}
	if n := stats.Notifications[0]; n.Type != NotificationExpired || n.Name != "Expired" {
		t.Errorf("first notification = %+v, want expired", n)
	}
	if n := stats.Notifications[1]; n.Type != NotificationLow || n.Name != "Low" || n.Quantity != 2 {
		t.Errorf("second notification = %+v, want low", n)
	}
}

func TestStockMovement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.addSupplier(t, "Supplier")
	p := f.addProduct(t, "Crackers", "9", nil)

	day1 := time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)

	f.setClock(day1)
	f.resupply(t, p.ID, supplier.ID, 30, "2026-01-01", 0)
	if _, err := f.inventory.Sell(ctx, &SaleRequest{Items: []SaleLine{{ProductID: p.ID, Quantity: 4}}}); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	f.setClock(day2)
	if _, err := f.inventory.Sell(ctx, &SaleRequest{Items: []SaleLine{{ProductID: p.ID, Quantity: 6}}}); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}

	f.setClock(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
	data, err := f.reporting.StockMovement(ctx, 7)
	if err != nil {
		t.Fatalf("StockMovement() error = %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("StockMovement() = %+v, want 2 days", data)
	}
	if data[0].Date != "2025-06-08" || data[0].Inbound != 30 || data[0].Outbound != 4 {
		t.Errorf("day 1 = %+v, want 2025-06-08 in 30 out 4", data[0])
	}
	if data[1].Date != "2025-06-09" || data[1].Inbound != 0 || data[1].Outbound != 6 {
		t.Errorf("day 2 = %+v, want 2025-06-09 in 0 out 6", data[1])
	}

	if _, err := f.reporting.StockMovement(ctx, 0); err == nil {
		t.Error("StockMovement(0) error = nil, want ErrInvalidInput")
	}
}

func TestExportSalesHistory(t *testing.T) {
	f := newFixture(t)
	p := f.stock(t, "Gin", 10, 0, nil)
	for i := 0; i < 3; i++ {
		f.sale(t, p.ID, time.Date(2025, 5, 1+i, 8, 0, 0, 0, time.UTC), 1, fmt.Sprintf("%d.50", 100+i))
	}

	var buf bytes.Buffer
	if err := f.reporting.ExportSalesHistory(context.Background(), &buf); err != nil {
		t.Fatalf("ExportSalesHistory() error = %v", err)
	}

	wb, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Sales")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 3", len(rows))
	}
	if rows[0][0] != "SaleID" || rows[1][2] != "Gin" {
		t.Errorf("unexpected sheet contents: %v", rows[:2])
	}
	if rows[1][1] != "2025-05-03 08:00:00" {
		t.Errorf("newest sale date = %q, want 2025-05-03 08:00:00", rows[1][1])
	}
}
