package models

import "time"

// Transaction types.
const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
)

// Transaction 表示一条账本记录。
// 金额用分存储，避免浮点误差：收入为正，支出为负，
// 转账是一对相反符号的记录，共用 transfer_group_id。
//
// Group linkage is flat: transfer pairs share TransferGroupID and
// installment plans share InstallmentGroupID, so group-wide operations
// are a filtered query instead of a traversal.
type Transaction struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"index;not null"`
	Type   string `gorm:"size:16;index;not null"` // income / expense / transfer

	AccountID  uint  `gorm:"index;not null"`
	CategoryID *uint `gorm:"index"` // nil when splits are present or type is transfer

	TransferGroupID    string `gorm:"size:36;index"` // pairs exactly two rows
	InstallmentGroupID string `gorm:"size:36;index"` // groups N rows
	InstallmentNumber  int    // 1..InstallmentTotal, 0 when not installment
	InstallmentTotal   int
	RecurringRuleID    *uint `gorm:"index"` // origin rule when machine-generated
	DebtID             *uint `gorm:"index"`

	AmountCents int64     `gorm:"not null"` // signed, minor units
	OccurredOn  time.Time `gorm:"index;not null"`
	DueOn       *time.Time
	Description string `gorm:"size:255"`
	Notes       string `gorm:"type:text"`
	IsCleared   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TransactionSplit sub-allocates one transaction across categories.
// The signed sum of a transaction's splits equals AmountCents exactly.
type TransactionSplit struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"index;not null"`
	TransactionID uint   `gorm:"index;not null"`
	CategoryID    uint   `gorm:"index;not null"`
	AmountCents   int64  `gorm:"not null"`
	Note          string `gorm:"size:255"`
	CreatedAt     time.Time
}

// TransactionTag links transactions and tags.
type TransactionTag struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"index;not null"`
	TransactionID uint `gorm:"index;not null"`
	TagID         uint `gorm:"index;not null"`
	CreatedAt     time.Time
}
