package models

import "time"

// Tag is a free label, many-to-many with transactions.
type Tag struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Name      string `gorm:"size:64;not null"`
	Color     string `gorm:"size:16"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
