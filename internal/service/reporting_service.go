package service

import (
	"context"
	"io"
	"time"

	"tindahan-pos/internal/model"
	"tindahan-pos/internal/repository"
	"tindahan-pos/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ReportingService is read-only over the ledger
type ReportingService interface {
	TodaysSalesTotal(ctx context.Context) (decimal.Decimal, error)
	LowStockItems(ctx context.Context) ([]model.InventoryView, error)
	ExpiredItems(ctx context.Context, asOf time.Time) ([]model.InventoryView, error)
	SalesHistory(ctx context.Context, page Page) ([]repository.SalesHistoryRow, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	StockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	ExportSalesHistory(ctx context.Context, w io.Writer) error
}

// Page limits a history query; Limit 0 means no paging
type Page struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

type DashboardStats struct {
	SalesToday    decimal.Decimal `json:"sales_today"`
	TotalProducts int64           `json:"total_products"`
	LowStockCount int             `json:"low_stock_count"`
	ExpiredCount  int             `json:"expired_count"`
	Notifications []Notification  `json:"notifications"`
}

const (
	NotificationExpired = "expired"
	NotificationLow     = "low"
)

type Notification struct {
	Type           string     `json:"type"`
	ProductID      uint       `json:"product_id"`
	Name           string     `json:"name"`
	Quantity       int        `json:"quantity"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

type reportingService struct {
	reportRepo repository.ReportRepository
	loc        *time.Location
	log        *logrus.Logger
	now        func() time.Time
}

// NewReportingService reports calendar days in loc ("today", expiry dates)
func NewReportingService(reportRepo repository.ReportRepository, loc *time.Location, log *logrus.Logger) ReportingService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportingService{
		reportRepo: reportRepo,
		loc:        loc,
		log:        log,
		now:        time.Now,
	}
}

// calendarDate maps t to UTC midnight of its local calendar day, the form expiration dates are stored in
func (s *reportingService) calendarDate(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// todayRange is the current local day as a UTC half-open interval
func (s *reportingService) todayRange() (time.Time, time.Time) {
	y, m, d := s.now().In(s.loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

func (s *reportingService) TodaysSalesTotal(ctx context.Context) (decimal.Decimal, error) {
	start, end := s.todayRange()
	total, err := s.reportRepo.SalesTotalBetween(ctx, start, end)
	if err != nil {
		logger.LogError(s.log, "reporting", "TodaysSalesTotal", "sum sale items", nil, err)
		return decimal.Zero, err
	}
	return total, nil
}

func (s *reportingService) LowStockItems(ctx context.Context) ([]model.InventoryView, error) {
	return s.reportRepo.LowStock(ctx)
}

// ExpiredItems lists stock expiring on or before asOf's calendar date. A zero asOf means today.
func (s *reportingService) ExpiredItems(ctx context.Context, asOf time.Time) ([]model.InventoryView, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	return s.reportRepo.ExpiredAsOf(ctx, s.calendarDate(asOf))
}

func (s *reportingService) SalesHistory(ctx context.Context, page Page) ([]repository.SalesHistoryRow, error) {
	if page.Limit < 0 || page.Offset < 0 {
		return nil, invalid("limit and offset must be non-negative")
	}
	return s.reportRepo.SalesHistory(ctx, page.Limit, page.Offset)
}

func (s *reportingService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	salesToday, err := s.TodaysSalesTotal(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.reportRepo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	low, err := s.LowStockItems(ctx)
	if err != nil {
		return nil, err
	}
	expired, err := s.ExpiredItems(ctx, time.Time{})
	if err != nil {
		return nil, err
	}

	notifications := make([]Notification, 0, len(low)+len(expired))
	for _, item := range expired {
		notifications = append(notifications, Notification{
			Type:           NotificationExpired,
			ProductID:      item.ProductID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			ExpirationDate: item.ExpirationDate,
		})
	}
	for _, item := range low {
		notifications = append(notifications, Notification{
			Type:      NotificationLow,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
		})
	}

	return &DashboardStats{
		SalesToday:    salesToday,
		TotalProducts: total,
		LowStockCount: len(low),
		ExpiredCount:  len(expired),
		Notifications: notifications,
	}, nil
}

// StockMovement returns per-day inbound and outbound units for the last days days, today included
func (s *reportingService) StockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		return nil, invalid("days must be greater than zero")
	}
	_, end := s.todayRange()
	start := end.AddDate(0, 0, -days)
	return s.reportRepo.GetStockMovement(ctx, start, end)
}

func (s *reportingService) ExportSalesHistory(ctx context.Context, w io.Writer) error {
	rows, err := s.reportRepo.SalesHistory(ctx, 0, 0)
	if err != nil {
		return err
	}

	sheet := sheetRows{
		Name:     "Sales",
		Headings: []string{"SaleID", "SaleDate", "Product", "Quantity", "Amount", "StockoutReason"},
	}
	for _, r := range rows {
		reason := ""
		if r.StockoutReason != nil {
			reason = string(*r.StockoutReason)
		}
		sheet.Rows = append(sheet.Rows, []interface{}{
			r.SaleID,
			r.SaleDate.In(s.loc).Format(time.DateTime),
			r.ProductName,
			r.Quantity,
			r.Amount.InexactFloat64(),
			reason,
		})
	}

	f, err := buildWorkbook(sheet)
	if err != nil {
		logger.LogError(s.log, "reporting", "ExportSalesHistory", "build workbook", len(rows), err)
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}
