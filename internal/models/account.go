package models

import "time"

// Account types accepted by the API.
const (
	AccountChecking   = "checking"
	AccountWallet     = "wallet"
	AccountSavings    = "savings"
	AccountCreditCard = "credit_card"
	AccountCash       = "cash"
	AccountInvestment = "investment"
)

// Account is a money holder (bank account, wallet, card...).
// Its balance is opening_balance_cents plus the signed sum of all
// transactions referencing it; the balance itself is never stored.
type Account struct {
	ID                  uint   `gorm:"primaryKey"`
	UserID              uint   `gorm:"index;not null"`
	Name                string `gorm:"size:64;not null"`
	Type                string `gorm:"size:16;not null"`
	Currency            string `gorm:"size:8;default:BRL"`
	OpeningBalanceCents int64  `gorm:"not null;default:0"`
	Archived            bool   `gorm:"not null;default:false"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
