package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResupplyEvent is the append-only record of a stock increase
type ResupplyEvent struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ProductID      uint            `gorm:"not null;index" json:"product_id"`
	SupplierID     *uint           `gorm:"index" json:"supplier_id"`
	UserID         *uint           `gorm:"index" json:"user_id"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_cost"`
	ResupplyDate   time.Time       `gorm:"not null;index" json:"resupply_date"`
	ExpirationDate *time.Time      `gorm:"type:date" json:"expiration_date,omitempty"`
}

func (ResupplyEvent) TableName() string {
	return "resupply_events"
}
