package model

type Supplier struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ContactInfo string `gorm:"type:varchar(255)" json:"contact_info"`
	Address     string `gorm:"type:text" json:"address"`
}
