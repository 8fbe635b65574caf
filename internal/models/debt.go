package models

import "time"

// Debt statuses.
const (
	DebtOpen         = "open"
	DebtRenegotiated = "renegotiated"
	DebtPaid         = "paid"
	DebtCanceled     = "canceled"
)

// Debt tracks money owed to a creditor. Transactions may reference it
// via DebtID.
type Debt struct {
	ID                  uint   `gorm:"primaryKey"`
	UserID              uint   `gorm:"index;not null"`
	Name                string `gorm:"size:128;not null"`
	Creditor            string `gorm:"size:128"`
	TotalAmountCents    int64  `gorm:"not null"`
	OutstandingCents    int64  `gorm:"not null"`
	InterestRateMonthly *float64
	DueOn               *time.Time
	Status              string `gorm:"size:16;index;not null;default:open"`
	Notes               string `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
