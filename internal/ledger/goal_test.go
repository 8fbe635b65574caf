package ledger

import (
	"testing"

	"github.com/KauaAraujodS/organiza-app/internal/apperror"
	"github.com/KauaAraujodS/organiza-app/internal/models"

	"gorm.io/gorm"
)

func seedGoal(t *testing.T, db *gorm.DB, userID uint, name string, target int64) uint {
	t.Helper()
	goal := models.Goal{UserID: userID, Name: name, TargetCents: target, Status: models.GoalActive}
	if err := db.Create(&goal).Error; err != nil {
		t.Fatalf("seed goal: %v", err)
	}
	return goal.ID
}

func TestAddGoalContribution_BooksExpenseAndAccumulates(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	goalID := seedGoal(t, db, userID, "Viagem", 100000)

	if err := svc.AddGoalContribution(userID, goalID, accID, 25000, day(2026, 3, 10)); err != nil {
		t.Fatalf("AddGoalContribution: %v", err)
	}

	txs := mustTransactions(t, db, userID)
	if len(txs) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txs))
	}
	row := txs[0]
	if row.Type != models.TypeExpense {
		t.Errorf("type = %q", row.Type)
	}
	if row.AmountCents != -25000 {
		t.Errorf("amount = %d, want -25000", row.AmountCents)
	}
	if row.Description != "Aporte para meta: Viagem" {
		t.Errorf("description = %q", row.Description)
	}
	if !row.IsCleared {
		t.Error("contribution rows are cleared on creation")
	}
	if row.CategoryID == nil {
		t.Fatal("contribution must carry the goal category")
	}
	var cat models.Category
	if err := db.First(&cat, *row.CategoryID).Error; err != nil {
		t.Fatalf("load category: %v", err)
	}
	if cat.Name != "Meta" || cat.Kind != models.CategoryBoth {
		t.Errorf("category = %q/%q, want Meta/both", cat.Name, cat.Kind)
	}

	var goal models.Goal
	if err := db.First(&goal, goalID).Error; err != nil {
		t.Fatalf("load goal: %v", err)
	}
	if goal.SavedCents != 25000 {
		t.Errorf("saved = %d, want 25000", goal.SavedCents)
	}
	if goal.Status != models.GoalActive {
		t.Errorf("status = %q, want active", goal.Status)
	}
}

func TestAddGoalContribution_ReusesCategoryAndCompletesGoal(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	goalID := seedGoal(t, db, userID, "Reserva", 50000)

	if err := svc.AddGoalContribution(userID, goalID, accID, 30000, day(2026, 1, 5)); err != nil {
		t.Fatalf("first contribution: %v", err)
	}
	if err := svc.AddGoalContribution(userID, goalID, accID, 20000, day(2026, 2, 5)); err != nil {
		t.Fatalf("second contribution: %v", err)
	}

	var cats int64
	if err := db.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", userID, "Meta").
		Count(&cats).Error; err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if cats != 1 {
		t.Errorf("goal categories = %d, want 1", cats)
	}

	var goal models.Goal
	if err := db.First(&goal, goalID).Error; err != nil {
		t.Fatalf("load goal: %v", err)
	}
	if goal.SavedCents != 50000 {
		t.Errorf("saved = %d, want 50000", goal.SavedCents)
	}
	if goal.Status != models.GoalCompleted {
		t.Errorf("status = %q, want completed", goal.Status)
	}
}

func TestAddGoalContribution_ArchivedGoalKeepsStatus(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")

	goal := models.Goal{UserID: userID, Name: "Antiga", TargetCents: 1000, Status: models.GoalArchived}
	if err := db.Create(&goal).Error; err != nil {
		t.Fatalf("seed goal: %v", err)
	}

	if err := svc.AddGoalContribution(userID, goal.ID, accID, 2000, day(2026, 4, 1)); err != nil {
		t.Fatalf("AddGoalContribution: %v", err)
	}
	var got models.Goal
	if err := db.First(&got, goal.ID).Error; err != nil {
		t.Fatalf("load goal: %v", err)
	}
	if got.Status != models.GoalArchived {
		t.Errorf("status = %q, want archived", got.Status)
	}
	if got.SavedCents != 2000 {
		t.Errorf("saved = %d, want 2000", got.SavedCents)
	}
}

func TestAddGoalContribution_Rejections(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	goalID := seedGoal(t, db, userID, "Viagem", 100000)

	archived := models.Account{UserID: userID, Name: "Velha", Type: models.AccountChecking, Archived: true}
	if err := db.Create(&archived).Error; err != nil {
		t.Fatalf("seed archived account: %v", err)
	}

	other := models.User{Username: "outro", PasswordHash: "x"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed second user: %v", err)
	}
	otherUser := other.ID

	cases := []struct {
		name string
		err  error
		kind apperror.Kind
	}{
		{"zero amount", svc.AddGoalContribution(userID, goalID, accID, 0, day(2026, 1, 1)), apperror.KindValidation},
		{"archived account", svc.AddGoalContribution(userID, goalID, archived.ID, 1000, day(2026, 1, 1)), apperror.KindValidation},
		{"missing goal", svc.AddGoalContribution(userID, 999, accID, 1000, day(2026, 1, 1)), apperror.KindNotFound},
		{"foreign goal", svc.AddGoalContribution(otherUser, goalID, accID, 1000, day(2026, 1, 1)), apperror.KindNotFound},
	}
	for _, tc := range cases {
		if tc.err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !apperror.IsKind(tc.err, tc.kind) {
			t.Errorf("%s: error = %v, want kind %v", tc.name, tc.err, tc.kind)
		}
	}

	txs := mustTransactions(t, db, userID)
	if len(txs) != 0 {
		t.Errorf("transactions = %d, want 0", len(txs))
	}
}
