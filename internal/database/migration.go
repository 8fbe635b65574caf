package database

import (
	"fmt"

	"github.com/KauaAraujodS/organiza-app/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.AuditLog{},
		&models.Account{},
		&models.Category{},
		&models.Tag{},
		&models.Transaction{},
		&models.TransactionSplit{},
		&models.TransactionTag{},
		&models.RecurringRule{},
		&models.Budget{},
		&models.Debt{},
		&models.Goal{},
		&models.CardProfile{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
