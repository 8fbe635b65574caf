package ledger

import (
	"testing"
	"time"

	"github.com/KauaAraujodS/organiza-app/internal/apperror"
	"github.com/KauaAraujodS/organiza-app/internal/models"

	"gorm.io/gorm"
)

func TestCreateRule_TransferRejected(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	svc := NewService(db)

	_, err := svc.CreateRule(userID, RuleInput{
		Title:         "Mesada",
		Type:          models.TypeTransfer,
		AccountID:     accID,
		AmountCents:   1000,
		Freq:          models.FreqMonthly,
		IntervalCount: 1,
		StartOn:       day(2025, time.June, 1),
		Active:        true,
	})
	if !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestRunDueRecurrences_GeneratesUpToHorizon(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	catID := seedCategory(t, db, userID, "Assinaturas", models.CategoryExpense)
	svc := NewService(db)

	_, err := svc.CreateRule(userID, RuleInput{
		Title:               "Streaming",
		Type:                models.TypeExpense,
		AccountID:           accID,
		CategoryID:          &catID,
		AmountCents:         2990,
		Freq:                models.FreqMonthly,
		IntervalCount:       1,
		StartOn:             day(2025, time.March, 10),
		AutoCreateDaysAhead: 0,
		Active:              true,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}

	now := day(2025, time.May, 15)
	n, err := svc.RunDueRecurrences(userID, now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// occurrences on Mar 10, Apr 10 and May 10
	if n != 3 {
		t.Fatalf("generated = %d, want 3", n)
	}

	rows := mustTransactions(t, db, userID)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for _, row := range rows {
		if row.AmountCents != -2990 {
			t.Errorf("amount = %d, want -2990", row.AmountCents)
		}
		if row.RecurringRuleID == nil {
			t.Error("generated row should reference its rule")
		}
		if row.Description != "Streaming" {
			t.Errorf("description = %q", row.Description)
		}
		if row.Notes != "Gerado automaticamente por recorrência" {
			t.Errorf("notes = %q", row.Notes)
		}
		if row.IsCleared {
			t.Error("generated rows start uncleared")
		}
	}

	var rule models.RecurringRule
	if err := db.Where("user_id = ?", userID).First(&rule).Error; err != nil {
		t.Fatalf("load rule: %v", err)
	}
	if !rule.NextRunAt.Equal(day(2025, time.June, 10)) {
		t.Errorf("cursor = %s, want 2025-06-10", rule.NextRunAt.Format("2006-01-02"))
	}
	if rule.LastRunAt == nil {
		t.Error("LastRunAt should be set after generation")
	}
}

// Regra mensal ancorada no fim do mês: o dia fixa no último dia quando
// o mês alvo é mais curto.
func TestRunDueRecurrences_MonthEndClamping(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	svc := NewService(db)

	_, err := svc.CreateRule(userID, RuleInput{
		Title:         "Aluguel",
		Type:          models.TypeExpense,
		AccountID:     accID,
		AmountCents:   150000,
		Freq:          models.FreqMonthly,
		IntervalCount: 1,
		StartOn:       day(2025, time.January, 31),
		Active:        true,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}

	n, err := svc.RunDueRecurrences(userID, day(2025, time.April, 1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 3 {
		t.Fatalf("generated = %d, want 3", n)
	}

	rows := mustTransactions(t, db, userID)
	want := []time.Time{
		day(2025, time.January, 31),
		day(2025, time.February, 28),
		day(2025, time.March, 31),
	}
	for i, row := range rows {
		if !row.OccurredOn.Equal(want[i]) {
			t.Errorf("occurrence %d = %s, want %s", i+1,
				row.OccurredOn.Format("2006-01-02"), want[i].Format("2006-01-02"))
		}
	}
}

// Rodar duas vezes com o mesmo relógio não duplica nada: o cursor já
// passou do horizonte na segunda rodada.
func TestRunDueRecurrences_Idempotent(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	svc := NewService(db)

	_, err := svc.CreateRule(userID, RuleInput{
		Title:         "Salário",
		Type:          models.TypeIncome,
		AccountID:     accID,
		AmountCents:   500000,
		Freq:          models.FreqMonthly,
		IntervalCount: 1,
		StartOn:       day(2025, time.May, 1),
		Active:        true,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}

	now := day(2025, time.May, 2)
	if n, err := svc.RunDueRecurrences(userID, now); err != nil || n != 1 {
		t.Fatalf("first run: n = %d, err = %v", n, err)
	}
	if n, err := svc.RunDueRecurrences(userID, now); err != nil || n != 0 {
		t.Fatalf("second run: n = %d, err = %v", n, err)
	}
	if rows := mustTransactions(t, db, userID); len(rows) != 1 {
		t.Errorf("rows = %d, want 1", len(rows))
	}
}

func TestRunDueRecurrences_RespectsEndOn(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	svc := NewService(db)

	endOn := day(2025, time.February, 15)
	_, err := svc.CreateRule(userID, RuleInput{
		Title:         "Curso",
		Type:          models.TypeExpense,
		AccountID:     accID,
		AmountCents:   10000,
		Freq:          models.FreqMonthly,
		IntervalCount: 1,
		StartOn:       day(2025, time.January, 5),
		EndOn:         &endOn,
		Active:        true,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}

	n, err := svc.RunDueRecurrences(userID, day(2025, time.December, 1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// Jan 5 and Feb 5 fall inside [start, end]; Mar 5 is past EndOn
	if n != 2 {
		t.Errorf("generated = %d, want 2", n)
	}
}

func TestRunDueRecurrences_FutureRuleGeneratesNothing(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	svc := NewService(db)

	_, err := svc.CreateRule(userID, RuleInput{
		Title:         "Futuro",
		Type:          models.TypeExpense,
		AccountID:     accID,
		AmountCents:   1000,
		Freq:          models.FreqDaily,
		IntervalCount: 1,
		StartOn:       day(2030, time.January, 1),
		Active:        true,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}

	n, err := svc.RunDueRecurrences(userID, day(2025, time.June, 1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 0 {
		t.Errorf("generated = %d, want 0", n)
	}
}

func TestRunDueRecurrences_DaysAheadHorizon(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	svc := NewService(db)

	_, err := svc.CreateRule(userID, RuleInput{
		Title:               "Diária",
		Type:                models.TypeExpense,
		AccountID:           accID,
		AmountCents:         500,
		Freq:                models.FreqDaily,
		IntervalCount:       1,
		StartOn:             day(2025, time.June, 1),
		AutoCreateDaysAhead: 3,
		Active:              true,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}

	n, err := svc.RunDueRecurrences(userID, day(2025, time.June, 1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// Jun 1 through Jun 4 inclusive
	if n != 4 {
		t.Errorf("generated = %d, want 4", n)
	}
}

func TestUpdateRule_CursorNeverMovesBackward(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	svc := NewService(db)

	id, err := svc.CreateRule(userID, RuleInput{
		Title:         "Internet",
		Type:          models.TypeExpense,
		AccountID:     accID,
		AmountCents:   9900,
		Freq:          models.FreqMonthly,
		IntervalCount: 1,
		StartOn:       day(2025, time.March, 1),
		Active:        true,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}
	if _, err := svc.RunDueRecurrences(userID, day(2025, time.April, 15)); err != nil {
		t.Fatalf("run: %v", err)
	}
	// cursor is now 2025-05-01; an earlier start date must not rewind it
	err = svc.UpdateRule(userID, id, RuleInput{
		Title:         "Internet",
		Type:          models.TypeExpense,
		AccountID:     accID,
		AmountCents:   9900,
		Freq:          models.FreqMonthly,
		IntervalCount: 1,
		StartOn:       day(2025, time.January, 1),
		Active:        true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	var rule models.RecurringRule
	if err := db.First(&rule, id).Error; err != nil {
		t.Fatalf("load rule: %v", err)
	}
	if !rule.NextRunAt.Equal(day(2025, time.May, 1)) {
		t.Errorf("cursor = %s, want 2025-05-01", rule.NextRunAt.Format("2006-01-02"))
	}
}

// A scheduler pass can commit between the rule read inside UpdateRule
// and its write. The query callback below advances the cursor right
// after UpdateRule loads the rule, so the update runs with a stale
// snapshot; the stored cursor must keep the scheduler's position.
func TestUpdateRule_StaleReadDoesNotRewindCursor(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	svc := NewService(db)

	id, err := svc.CreateRule(userID, RuleInput{
		Title:         "Aluguel",
		Type:          models.TypeExpense,
		AccountID:     accID,
		AmountCents:   150000,
		Freq:          models.FreqMonthly,
		IntervalCount: 1,
		StartOn:       day(2025, time.May, 1),
		Active:        true,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}

	advanced := false
	err = db.Callback().Query().After("gorm:query").Register("test_advance_cursor", func(tx *gorm.DB) {
		if advanced || tx.Statement.Table != "recurring_rules" {
			return
		}
		advanced = true
		if err := db.Exec("UPDATE recurring_rules SET next_run_at = ? WHERE id = ?",
			day(2025, time.June, 1), id).Error; err != nil {
			t.Errorf("advance cursor: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	defer db.Callback().Query().Remove("test_advance_cursor")

	err = svc.UpdateRule(userID, id, RuleInput{
		Title:         "Aluguel",
		Type:          models.TypeExpense,
		AccountID:     accID,
		AmountCents:   150000,
		Freq:          models.FreqMonthly,
		IntervalCount: 1,
		StartOn:       day(2025, time.May, 1),
		Active:        true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !advanced {
		t.Fatal("callback never fired")
	}

	var rule models.RecurringRule
	if err := db.First(&rule, id).Error; err != nil {
		t.Fatalf("load rule: %v", err)
	}
	if !rule.NextRunAt.Equal(day(2025, time.June, 1)) {
		t.Errorf("cursor = %s, want 2025-06-01", rule.NextRunAt.Format("2006-01-02"))
	}
}

func TestDeleteRule_KeepsGeneratedTransactions(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	accID := seedAccount(t, db, userID, "Corrente")
	svc := NewService(db)

	id, err := svc.CreateRule(userID, RuleInput{
		Title:         "Academia",
		Type:          models.TypeExpense,
		AccountID:     accID,
		AmountCents:   12000,
		Freq:          models.FreqMonthly,
		IntervalCount: 1,
		StartOn:       day(2025, time.April, 1),
		Active:        true,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}
	if _, err := svc.RunDueRecurrences(userID, day(2025, time.April, 1)); err != nil {
		t.Fatalf("run: %v", err)
	}

	if err := svc.DeleteRule(userID, id); err != nil {
		t.Fatalf("delete rule: %v", err)
	}

	rows := mustTransactions(t, db, userID)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].RecurringRuleID != nil {
		t.Error("origin reference should be cleared after rule deletion")
	}
}
