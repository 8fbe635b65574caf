package models

import "time"

// CardProfile holds the billing cycle of a credit_card account:
// statement closing day, payment due day and optional limit.
type CardProfile struct {
	ID               uint `gorm:"primaryKey"`
	UserID           uint `gorm:"index;not null"`
	AccountID        uint `gorm:"uniqueIndex;not null"`
	ClosingDay       int  `gorm:"not null"` // 1..31
	DueDay           int  `gorm:"not null"` // 1..31
	CreditLimitCents *int64
	CurrentDueCents  int64 `gorm:"not null;default:0"`
	BestPurchaseDay  *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
