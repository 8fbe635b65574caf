package models

import "time"

// Budget is a spending plan for a period. Realization is computed from
// transactions on read, never stored.
type Budget struct {
	ID               uint      `gorm:"primaryKey"`
	UserID           uint      `gorm:"index;not null"`
	Name             string    `gorm:"size:128;not null"`
	PeriodStart      time.Time `gorm:"not null"`
	PeriodEnd        time.Time `gorm:"not null"` // inclusive
	AmountLimitCents int64     `gorm:"not null"`
	CategoryID       *uint     `gorm:"index"` // nil = all expense categories
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
