package model

import "time"

// Inventory is the current stock of one product, replayed from the resupply and sale history.
// Quantity never goes below zero.
type Inventory struct {
	ProductID      uint       `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Quantity       int        `gorm:"not null;default:0" json:"quantity"`
	Threshold      int        `gorm:"not null;default:0" json:"threshold"`
	ExpirationDate *time.Time `gorm:"type:date;index" json:"expiration_date,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Inventory) TableName() string {
	return "inventory"
}

// IsLowStock reports quantity at or below the configured threshold
func (i *Inventory) IsLowStock() bool {
	return i.Quantity <= i.Threshold
}

// IsExpired reports whether the stock expires on or before asOf (calendar dates)
func (i *Inventory) IsExpired(asOf time.Time) bool {
	if i.ExpirationDate == nil {
		return false
	}
	return !i.ExpirationDate.After(asOf)
}

// InventoryView is an inventory row joined with its product
type InventoryView struct {
	ProductID      uint       `json:"id"`
	Name           string     `json:"name"`
	SKU            *string    `json:"sku,omitempty"`
	Quantity       int        `json:"quantity"`
	Threshold      int        `json:"threshold"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}
