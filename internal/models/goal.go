package models

import "time"

// Goal statuses.
const (
	GoalActive    = "active"
	GoalPaused    = "paused"
	GoalCompleted = "completed"
	GoalArchived  = "archived"
)

// Goal is a savings target. SavedCents accumulates through
// contributions, each of which also books an expense transaction.
type Goal struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	Name        string `gorm:"size:128;not null"`
	TargetCents int64  `gorm:"not null"`
	SavedCents  int64  `gorm:"not null;default:0"`
	TargetDate  *time.Time
	Status      string `gorm:"size:16;index;not null;default:active"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
