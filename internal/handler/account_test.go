package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/KauaAraujodS/organiza-app/internal/database"
	"github.com/KauaAraujodS/organiza-app/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openHandlerTestDB(t *testing.T) *gorm.DB {
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

// testContext builds an authenticated gin context with an :id param.
func testContext(t *testing.T, user *models.User, id string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Set("currentUser", user)
	c.Params = gin.Params{{Key: "id", Value: id}}
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestAccountDelete_BlockedByLinkedTransactions(t *testing.T) {
	db := openHandlerTestDB(t)

	user := models.User{Username: "tester", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	acc := models.Account{UserID: user.ID, Name: "Corrente", Type: models.AccountChecking}
	if err := db.Create(&acc).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	tx := models.Transaction{
		UserID:      user.ID,
		AccountID:   acc.ID,
		Type:        models.TypeExpense,
		AmountCents: -1000,
		OccurredOn:  time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&tx).Error; err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	h := NewAccountHandler(db, "BRL")
	c, w := testContext(t, &user, "1")
	h.Delete(c)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	body := decodeEnvelope(t, w)
	if code, _ := body["code"].(float64); int(code) != 40901 {
		t.Errorf("code = %v, want 40901", body["code"])
	}

	var count int64
	if err := db.Model(&models.Account{}).Where("id = ?", acc.ID).Count(&count).Error; err != nil {
		t.Fatalf("count accounts: %v", err)
	}
	if count != 1 {
		t.Error("account must not be deleted while referenced")
	}
}

func TestDebtDelete_BlockedByLinkedTransactions(t *testing.T) {
	db := openHandlerTestDB(t)

	user := models.User{Username: "tester", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	acc := models.Account{UserID: user.ID, Name: "Corrente", Type: models.AccountChecking}
	if err := db.Create(&acc).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	debt := models.Debt{UserID: user.ID, Name: "Cartão antigo", TotalAmountCents: 5000, OutstandingCents: 5000, Status: models.DebtOpen}
	if err := db.Create(&debt).Error; err != nil {
		t.Fatalf("seed debt: %v", err)
	}
	tx := models.Transaction{
		UserID:      user.ID,
		AccountID:   acc.ID,
		DebtID:      &debt.ID,
		Type:        models.TypeExpense,
		AmountCents: -1000,
		OccurredOn:  time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&tx).Error; err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	h := NewDebtHandler(db)
	c, w := testContext(t, &user, "1")
	h.Delete(c)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	body := decodeEnvelope(t, w)
	if code, _ := body["code"].(float64); int(code) != 40901 {
		t.Errorf("code = %v, want 40901", body["code"])
	}
}
