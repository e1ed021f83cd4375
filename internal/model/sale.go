package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockoutReason string

const (
	StockoutSold    StockoutReason = "sold"
	StockoutExpired StockoutReason = "expired"
)

// Sale is the header of one committed checkout
type Sale struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	UserID   *uint      `gorm:"index" json:"user_id"`
	SaleDate time.Time  `gorm:"not null;index" json:"sale_date"`
	Items    []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

type SaleItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SaleID    uint            `gorm:"not null;index" json:"sale_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"` // Snapshot unit price * quantity

	// Name snapshot keeps history readable after the product is deleted
	ProductName    string          `gorm:"type:varchar(255)" json:"product_name"`
	StockoutReason *StockoutReason `gorm:"type:varchar(10)" json:"stockout_reason,omitempty"`
}

// Total sums the line amounts
func (s *Sale) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Amount)
	}
	return total
}
