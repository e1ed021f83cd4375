package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	SKU         *string         `gorm:"type:varchar(50);uniqueIndex" json:"sku"`
	Name        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	SupplierID  *uint           `gorm:"index" json:"supplier_id"`
	Supplier    *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	// Current stock
	Inventory *Inventory `gorm:"foreignKey:ProductID" json:"inventory,omitempty"`
}
