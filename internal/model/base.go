package model

import (
	"time"
)

// BaseModel handles the auto-increment ID and standard audit trail
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit User Tracking
	CreatedBy *uint `json:"created_by,omitempty"`
	UpdatedBy *uint `json:"updated_by,omitempty"`
}

// All lists every table owned by the ledger, in migration order
func All() []interface{} {
	return []interface{}{
		&Privilege{}, &Role{}, &User{},
		&Supplier{}, &Product{}, &Inventory{},
		&ResupplyEvent{}, &Sale{}, &SaleItem{},
		&Backup{},
	}
}
