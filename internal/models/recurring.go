package models

import "time"

// Recurrence frequencies.
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
	FreqYearly  = "yearly"
)

// RecurringRule is a template that the scheduler materializes into
// transactions. NextRunAt is the only mutable scheduling state; it
// strictly advances and is never set backward.
type RecurringRule struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"index;not null"`
	Title      string `gorm:"size:128;not null"`
	Type       string `gorm:"size:16;not null"` // income / expense (transfer unsupported)
	AccountID  uint   `gorm:"index;not null"`
	CategoryID *uint  `gorm:"index"`

	AmountCents   int64     `gorm:"not null"` // stored signed per type
	Freq          string    `gorm:"size:16;not null"`
	IntervalCount int       `gorm:"not null;default:1"`
	StartOn       time.Time `gorm:"not null"`
	EndOn         *time.Time

	NextRunAt           time.Time `gorm:"index;not null"` // cursor for the next occurrence
	LastRunAt           *time.Time
	Timezone            string `gorm:"size:64;default:UTC"`
	AutoCreateDaysAhead int    `gorm:"not null;default:0"`
	Active              bool   `gorm:"index;not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
