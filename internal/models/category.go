package models

import "time"

// Category kinds.
const (
	CategoryIncome  = "income"
	CategoryExpense = "expense"
	CategoryBoth    = "both"
)

// Category represents income/expense category. One level of hierarchy
// via ParentID.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Name      string `gorm:"size:64;not null"`
	Kind      string `gorm:"size:16;index;not null"` // income / expense / both
	ParentID  *uint  `gorm:"index"`
	Color     string `gorm:"size:16"`
	Icon      string `gorm:"size:32"`
	Archived  bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
