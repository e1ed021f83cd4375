package model

import "time"

type Backup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	Location  string    `gorm:"type:text;not null" json:"location"`
}
