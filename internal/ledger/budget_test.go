package ledger

import (
	"testing"
	"time"

	"github.com/KauaAraujodS/organiza-app/internal/models"
)

func seedExpense(t *testing.T, svc *Service, userID, accID uint, catID *uint, cents int64, on time.Time) {
	t.Helper()
	_, err := svc.CreateTransaction(userID, TransactionInput{
		Type:        models.TypeExpense,
		AccountID:   accID,
		CategoryID:  catID,
		AmountCents: cents,
		OccurredOn:  on,
	})
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}
}

func TestComputeBudgetRealization_Statuses(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	svc := NewService(db)

	budget := &models.Budget{
		UserID:           userID,
		Name:             "Maio",
		PeriodStart:      day(2025, time.May, 1),
		PeriodEnd:        day(2025, time.May, 31),
		AmountLimitCents: 100000,
	}

	cases := []struct {
		spend      int64
		rawPercent int64
		percent    int64
		status     string
	}{
		{10000, 10, 10, BudgetStatusOK},
		{70000, 80, 80, BudgetStatusWarning}, // cumulative 80%
		{50000, 130, 100, BudgetStatusOver},  // raw keeps going, display clamps
	}
	for _, tc := range cases {
		seedExpense(t, svc, userID, accID, nil, tc.spend, day(2025, time.May, 10))
		got, err := svc.ComputeBudgetRealization(userID, budget)
		if err != nil {
			t.Fatalf("realization: %v", err)
		}
		if got.RawPercent != tc.rawPercent || got.Percent != tc.percent || got.Status != tc.status {
			t.Errorf("after spending %d: raw=%d percent=%d status=%s, want raw=%d percent=%d status=%s",
				tc.spend, got.RawPercent, got.Percent, got.Status,
				tc.rawPercent, tc.percent, tc.status)
		}
	}
}

func TestComputeBudgetRealization_CategoryFilter(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	catFood := seedCategory(t, db, userID, "Alimentação", models.CategoryExpense)
	catOther := seedCategory(t, db, userID, "Outros", models.CategoryExpense)
	svc := NewService(db)

	seedExpense(t, svc, userID, accID, &catFood, 30000, day(2025, time.May, 5))
	seedExpense(t, svc, userID, accID, &catOther, 50000, day(2025, time.May, 6))

	budget := &models.Budget{
		UserID:           userID,
		Name:             "Comida",
		PeriodStart:      day(2025, time.May, 1),
		PeriodEnd:        day(2025, time.May, 31),
		AmountLimitCents: 60000,
		CategoryID:       &catFood,
	}
	got, err := svc.ComputeBudgetRealization(userID, budget)
	if err != nil {
		t.Fatalf("realization: %v", err)
	}
	if got.RealizedCents != 30000 {
		t.Errorf("realized = %d, want 30000 (only the filtered category)", got.RealizedCents)
	}
}

func TestComputeBudgetRealization_IgnoresIncomeAndTransfers(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	destID := seedAccount(t, db, userID, "Poupança")
	svc := NewService(db)

	seedExpense(t, svc, userID, accID, nil, 20000, day(2025, time.May, 5))
	if _, err := svc.CreateTransaction(userID, TransactionInput{
		Type:        models.TypeIncome,
		AccountID:   accID,
		AmountCents: 99999,
		OccurredOn:  day(2025, time.May, 6),
	}); err != nil {
		t.Fatalf("seed income: %v", err)
	}
	if _, err := svc.CreateTransaction(userID, TransactionInput{
		Type:                 models.TypeTransfer,
		AccountID:            accID,
		DestinationAccountID: destID,
		AmountCents:          88888,
		OccurredOn:           day(2025, time.May, 7),
	}); err != nil {
		t.Fatalf("seed transfer: %v", err)
	}

	budget := &models.Budget{
		UserID:           userID,
		Name:             "Maio",
		PeriodStart:      day(2025, time.May, 1),
		PeriodEnd:        day(2025, time.May, 31),
		AmountLimitCents: 100000,
	}
	got, err := svc.ComputeBudgetRealization(userID, budget)
	if err != nil {
		t.Fatalf("realization: %v", err)
	}
	if got.RealizedCents != 20000 {
		t.Errorf("realized = %d, want 20000 (expenses only)", got.RealizedCents)
	}
}

func TestComputeBudgetRealization_PeriodBoundsInclusive(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	svc := NewService(db)

	seedExpense(t, svc, userID, accID, nil, 1000, day(2025, time.April, 30))
	seedExpense(t, svc, userID, accID, nil, 2000, day(2025, time.May, 1))
	seedExpense(t, svc, userID, accID, nil, 4000, day(2025, time.May, 31))
	seedExpense(t, svc, userID, accID, nil, 8000, day(2025, time.June, 1))

	budget := &models.Budget{
		UserID:           userID,
		Name:             "Maio",
		PeriodStart:      day(2025, time.May, 1),
		PeriodEnd:        day(2025, time.May, 31),
		AmountLimitCents: 100000,
	}
	got, err := svc.ComputeBudgetRealization(userID, budget)
	if err != nil {
		t.Fatalf("realization: %v", err)
	}
	if got.RealizedCents != 6000 {
		t.Errorf("realized = %d, want 6000 (both period edges inclusive)", got.RealizedCents)
	}
}
