package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/KauaAraujodS/organiza-app/internal/apperror"
	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"

	"gorm.io/gorm"
)

// generationNote marks machine-generated transactions.
const generationNote = "Gerado automaticamente por recorrência"

// errCursorMoved sinaliza que outro passo do agendador avançou o cursor
// da regra enquanto este passo gerava as transações; o lote inteiro é
// desfeito e a regra fica para a próxima rodada.
var errCursorMoved = errors.New("recurrence cursor moved concurrently")

// RuleInput carries the fields of a recurring rule. AmountCents is a
// positive magnitude, stored signed per type.
type RuleInput struct {
	Title               string
	Type                string
	AccountID           uint
	CategoryID          *uint
	AmountCents         int64
	Freq                string
	IntervalCount       int
	StartOn             time.Time
	EndOn               *time.Time
	Timezone            string
	AutoCreateDaysAhead int
	Active              bool
}

func validateRule(in *RuleInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperror.Validation("Título da recorrência é obrigatório.")
	}
	if in.Type == models.TypeTransfer {
		return apperror.Validation("Recorrência de transferência não suportada.")
	}
	if in.Type != models.TypeIncome && in.Type != models.TypeExpense {
		return apperror.Validation("Tipo de recorrência inválido.")
	}
	switch in.Freq {
	case models.FreqDaily, models.FreqWeekly, models.FreqMonthly, models.FreqYearly:
	default:
		return apperror.Validation("Frequência inválida.")
	}
	if in.IntervalCount < 1 {
		return apperror.Validation("Intervalo deve ser maior que zero.")
	}
	if in.AmountCents <= 0 {
		return apperror.Validation("Valor deve ser maior que zero.")
	}
	if in.AccountID == 0 {
		return apperror.Validation("Conta é obrigatória.")
	}
	if in.StartOn.IsZero() {
		return apperror.Validation("Data de início é obrigatória.")
	}
	if in.EndOn != nil && in.EndOn.Before(in.StartOn) {
		return apperror.Validation("Data final inválida.")
	}
	if in.Timezone == "" {
		in.Timezone = "UTC"
	}
	return nil
}

// CreateRule persists a recurring rule. The cursor starts at StartOn.
func (s *Service) CreateRule(userID uint, in RuleInput) (uint, error) {
	if err := validateRule(&in); err != nil {
		return 0, err
	}

	startOn := util.DateOnly(in.StartOn)
	var endOn *time.Time
	if in.EndOn != nil {
		e := util.DateOnly(*in.EndOn)
		endOn = &e
	}

	rule := models.RecurringRule{
		UserID:              userID,
		Title:               in.Title,
		Type:                in.Type,
		AccountID:           in.AccountID,
		CategoryID:          in.CategoryID,
		AmountCents:         util.SignedAmount(in.Type, in.AmountCents),
		Freq:                in.Freq,
		IntervalCount:       in.IntervalCount,
		StartOn:             startOn,
		EndOn:               endOn,
		NextRunAt:           startOn,
		Timezone:            in.Timezone,
		AutoCreateDaysAhead: in.AutoCreateDaysAhead,
		Active:              in.Active,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkAccounts(tx, userID, in.AccountID); err != nil {
			return err
		}
		if err := checkCategories(tx, userID, in.CategoryID, nil); err != nil {
			return err
		}
		if err := tx.Create(&rule).Error; err != nil {
			return apperror.Consistency("Falha ao criar recorrência.", err)
		}
		return nil
	})
	if err != nil {
		return 0, wrapStore(err, "Falha ao criar recorrência.")
	}
	return rule.ID, nil
}

// UpdateRule replaces a rule's fields. The scheduling cursor never
// moves backward: it is only bumped forward when the new start date
// passed it.
func (s *Service) UpdateRule(userID, id uint, in RuleInput) error {
	if err := validateRule(&in); err != nil {
		return err
	}

	var rule models.RecurringRule
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&rule).Error; err != nil {
		return wrapStore(err, "Recorrência não encontrada.")
	}

	startOn := util.DateOnly(in.StartOn)
	var endOn *time.Time
	if in.EndOn != nil {
		e := util.DateOnly(*in.EndOn)
		endOn = &e
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkAccounts(tx, userID, in.AccountID); err != nil {
			return err
		}
		if err := checkCategories(tx, userID, in.CategoryID, nil); err != nil {
			return err
		}
		updates := map[string]interface{}{
			"title":                  in.Title,
			"type":                   in.Type,
			"account_id":             in.AccountID,
			"category_id":            in.CategoryID,
			"amount_cents":           util.SignedAmount(in.Type, in.AmountCents),
			"freq":                   in.Freq,
			"interval_count":         in.IntervalCount,
			"start_on":               startOn,
			"end_on":                 endOn,
			"timezone":               in.Timezone,
			"auto_create_days_ahead": in.AutoCreateDaysAhead,
			"active":                 in.Active,
		}
		if err := tx.Model(&models.RecurringRule{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates).Error; err != nil {
			return apperror.Consistency("Falha ao atualizar recorrência.", err)
		}
		// The cursor comparison happens in the store, not against the
		// snapshot read above: a scheduler pass that advanced the rule
		// meanwhile keeps its position.
		if err := tx.Model(&models.RecurringRule{}).
			Where("id = ? AND user_id = ? AND next_run_at < ?", id, userID, startOn).
			Update("next_run_at", startOn).Error; err != nil {
			return apperror.Consistency("Falha ao atualizar recorrência.", err)
		}
		return nil
	})
	return wrapStore(err, "Falha ao atualizar recorrência.")
}

// DeleteRule removes a rule. Transactions it generated stay in the
// ledger with the origin reference cleared.
func (s *Service) DeleteRule(userID, id uint) error {
	var rule models.RecurringRule
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&rule).Error; err != nil {
		return wrapStore(err, "Recorrência não encontrada.")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("recurring_rule_id = ? AND user_id = ?", id, userID).
			Update("recurring_rule_id", nil).Error; err != nil {
			return apperror.Consistency("Falha ao desvincular transações.", err)
		}
		if err := tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&models.RecurringRule{}).Error; err != nil {
			return apperror.Consistency("Falha ao excluir recorrência.", err)
		}
		return nil
	})
	return wrapStore(err, "Falha ao excluir recorrência.")
}

// RunDueRecurrences roda um passo do agendador para todas as regras
// ativas do usuário e devolve quantas transações foram geradas. Um
// passo sem regras elegíveis não é erro.
func (s *Service) RunDueRecurrences(userID uint, now time.Time) (int, error) {
	var rules []models.RecurringRule
	if err := s.db.Where("user_id = ? AND active = ?", userID, true).
		Order("next_run_at ASC").
		Find(&rules).Error; err != nil {
		return 0, apperror.Consistency("Falha ao consultar recorrências.", err)
	}

	total := 0
	for i := range rules {
		n, err := s.runRule(userID, &rules[i], now)
		if errors.Is(err, errCursorMoved) {
			// a concurrent pass already advanced this rule; it wins
			continue
		}
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// runRule materializes every occurrence of one rule up to the horizon.
// The generated rows and the cursor advance commit together; the cursor
// update is conditional on the value read at the start, so two racing
// passes can never both commit a batch for the same cursor.
func (s *Service) runRule(userID uint, rule *models.RecurringRule, now time.Time) (int, error) {
	horizon := now.AddDate(0, 0, rule.AutoCreateDaysAhead)
	prevCursor := rule.NextRunAt

	generated := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cursor := prevCursor
		for !cursor.After(horizon) {
			if rule.EndOn != nil && cursor.After(*rule.EndOn) {
				break
			}
			occurred := util.DateOnly(cursor)
			due := occurred
			row := models.Transaction{
				UserID:          userID,
				Type:            rule.Type,
				AccountID:       rule.AccountID,
				CategoryID:      rule.CategoryID,
				RecurringRuleID: &rule.ID,
				AmountCents:     rule.AmountCents,
				OccurredOn:      occurred,
				DueOn:           &due,
				Description:     rule.Title,
				Notes:           generationNote,
				IsCleared:       false,
			}
			if err := tx.Create(&row).Error; err != nil {
				return apperror.Consistency("Falha ao gerar transação recorrente.", err)
			}
			generated++
			cursor = advanceCursor(cursor, rule.Freq, rule.IntervalCount)
		}

		updates := map[string]interface{}{"next_run_at": cursor}
		if generated > 0 {
			updates["last_run_at"] = now
		}
		res := tx.Model(&models.RecurringRule{}).
			Where("id = ? AND user_id = ? AND next_run_at = ?", rule.ID, userID, prevCursor).
			Updates(updates)
		if res.Error != nil {
			return apperror.Consistency("Falha ao avançar o cursor da recorrência.", res.Error)
		}
		if res.RowsAffected == 0 {
			return errCursorMoved
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errCursorMoved) {
			return 0, errCursorMoved
		}
		return 0, wrapStore(err, "Falha ao processar recorrências.")
	}
	return generated, nil
}

// advanceCursor moves the cursor forward by one rule interval using
// calendar-aware arithmetic (month-end dates clamp, see util.AddMonths).
func advanceCursor(cursor time.Time, freq string, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	switch freq {
	case models.FreqDaily:
		return cursor.AddDate(0, 0, interval)
	case models.FreqWeekly:
		return cursor.AddDate(0, 0, 7*interval)
	case models.FreqMonthly:
		return util.AddMonths(cursor, interval)
	case models.FreqYearly:
		return util.AddMonths(cursor, 12*interval)
	}
	return cursor.AddDate(0, 0, interval)
}
