package ledger

import (
	"path/filepath"
	"testing"

	"github.com/KauaAraujodS/organiza-app/internal/database"
	"github.com/KauaAraujodS/organiza-app/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB abre um banco sqlite real em diretório temporário; o
// :memory: do driver cria um banco por conexão e quebraria os testes
// que usam o pool.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	user := models.User{Username: "tester", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func seedAccount(t *testing.T, db *gorm.DB, userID uint, name string) uint {
	t.Helper()
	acc := models.Account{UserID: userID, Name: name, Type: models.AccountChecking}
	if err := db.Create(&acc).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return acc.ID
}

func seedCategory(t *testing.T, db *gorm.DB, userID uint, name, kind string) uint {
	t.Helper()
	cat := models.Category{UserID: userID, Name: name, Kind: kind}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return cat.ID
}

func mustTransactions(t *testing.T, db *gorm.DB, userID uint) []models.Transaction {
	t.Helper()
	var txs []models.Transaction
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&txs).Error; err != nil {
		t.Fatalf("load transactions: %v", err)
	}
	return txs
}
