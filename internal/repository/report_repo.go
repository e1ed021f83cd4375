package repository

import (
	"context"
	"sort"
	"time"

	"tindahan-pos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportRepository interface {
	SalesTotalBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	LowStock(ctx context.Context) ([]model.InventoryView, error)
	ExpiredAsOf(ctx context.Context, asOf time.Time) ([]model.InventoryView, error)
	SalesHistory(ctx context.Context, limit, offset int) ([]SalesHistoryRow, error)
	CountProducts(ctx context.Context) (int64, error)
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
}

// SalesHistoryRow is one sale item joined with its sale and product
type SalesHistoryRow struct {
	SaleID         uint                  `json:"sale_id"`
	SaleDate       time.Time             `json:"sale_date"`
	UserID         *uint                 `json:"user_id,omitempty"`
	SaleItemID     uint                  `json:"sale_item_id"`
	ProductID      uint                  `json:"product_id"`
	ProductName    string                `json:"product_name"`
	Quantity       int                   `json:"quantity"`
	Amount         decimal.Decimal       `json:"amount"`
	StockoutReason *model.StockoutReason `json:"stockout_reason,omitempty"`
}

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

// SalesTotalBetween sums sale item amounts for sales dated in [start, end).
// sqlite keeps decimal columns as REAL, so the amounts are added here rather than with SUM().
func (r *reportRepo) SalesTotalBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.db.WithContext(ctx).
		Table("sale_items").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sale_date >= ? AND sales.sale_date < ?", start, end).
		Pluck("sale_items.amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Round(2))
	}
	return total, nil
}

func (r *reportRepo) inventoryView(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("inventory AS i").
		Select("i.product_id, p.name, p.sku, i.quantity, i.threshold, i.expiration_date").
		Joins("JOIN products p ON p.id = i.product_id")
}

func (r *reportRepo) LowStock(ctx context.Context) ([]model.InventoryView, error) {
	var rows []model.InventoryView
	err := r.inventoryView(ctx).
		Where("i.quantity <= i.threshold").
		Order("i.quantity ASC, p.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) ExpiredAsOf(ctx context.Context, asOf time.Time) ([]model.InventoryView, error) {
	var rows []model.InventoryView
	err := r.inventoryView(ctx).
		Where("i.expiration_date IS NOT NULL AND i.expiration_date <= ?", asOf).
		Order("i.expiration_date ASC, p.name ASC").
		Scan(&rows).Error
	return rows, err
}

// SalesHistory lists sale items newest sale first; limit <= 0 returns everything
func (r *reportRepo) SalesHistory(ctx context.Context, limit, offset int) ([]SalesHistoryRow, error) {
	var rows []SalesHistoryRow
	query := r.db.WithContext(ctx).
		Table("sale_items").
		Select(`
			sales.id AS sale_id,
			sales.sale_date,
			sales.user_id,
			sale_items.id AS sale_item_id,
			sale_items.product_id,
			COALESCE(products.name, sale_items.product_name) AS product_name,
			sale_items.quantity,
			sale_items.amount,
			sale_items.stockout_reason
		`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("LEFT JOIN products ON products.id = sale_items.product_id").
		Order("sales.sale_date DESC, sales.id DESC, sale_items.id ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}

// GetStockMovement aggregates resupplied (inbound) and sold (outbound) units per day
func (r *reportRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	byDate := map[string]*StockMovementData{}
	var dates []string

	collect := func(query *gorm.DB, inbound bool) error {
		rows, err := query.Rows()
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var date string
			var qty int
			if err := rows.Scan(&date, &qty); err != nil {
				return err
			}
			if len(date) > 10 {
				date = date[:10]
			}
			data, ok := byDate[date]
			if !ok {
				data = &StockMovementData{Date: date}
				byDate[date] = data
				dates = append(dates, date)
			}
			if inbound {
				data.Inbound += qty
			} else {
				data.Outbound += qty
			}
		}
		return rows.Err()
	}

	inbound := r.db.WithContext(ctx).Model(&model.ResupplyEvent{}).
		Select("DATE(resupply_date) AS date, COALESCE(SUM(quantity), 0) AS qty").
		Where("resupply_date BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(resupply_date)")
	if err := collect(inbound, true); err != nil {
		return nil, err
	}

	outbound := r.db.WithContext(ctx).Table("sale_items").
		Select("DATE(sales.sale_date) AS date, COALESCE(SUM(sale_items.quantity), 0) AS qty").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sale_date BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(sales.sale_date)")
	if err := collect(outbound, false); err != nil {
		return nil, err
	}

	sort.Strings(dates) // ISO dates sort lexically
	results := make([]StockMovementData, 0, len(dates))
	for _, d := range dates {
		results = append(results, *byDate[d])
	}
	return results, nil
}
