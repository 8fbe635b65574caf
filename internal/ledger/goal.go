package ledger

import (
	"fmt"
	"time"

	"github.com/KauaAraujodS/organiza-app/internal/apperror"
	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"

	"gorm.io/gorm"
)

// goalCategoryName is the reserved category that carries goal
// contributions in the ledger. Created on first use.
const goalCategoryName = "Meta"

// AddGoalContribution books a contribution: an expense transaction on
// the origin account under the reserved goal category, plus the goal's
// saved total and status. A goal that reaches its target flips to
// completed; an archived goal keeps its status.
func (s *Service) AddGoalContribution(userID, goalID, accountID uint, amountCents int64, occurredOn time.Time) error {
	if amountCents <= 0 {
		return apperror.Validation("Valor do aporte deve ser maior que zero.")
	}
	if accountID == 0 {
		return apperror.Validation("Selecione uma conta de origem.")
	}
	if occurredOn.IsZero() {
		occurredOn = time.Now()
	}

	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		return wrapStore(err, "Meta não encontrada.")
	}

	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		return wrapStore(err, "Conta não encontrada.")
	}
	if account.Archived {
		return apperror.Validation("Conta arquivada não pode receber lançamentos.")
	}

	categoryID, err := s.ensureGoalCategory(userID)
	if err != nil {
		return err
	}

	ids, err := s.CreateTransaction(userID, TransactionInput{
		Type:        models.TypeExpense,
		AccountID:   accountID,
		CategoryID:  &categoryID,
		AmountCents: amountCents,
		OccurredOn:  occurredOn,
		Description: fmt.Sprintf("Aporte para meta: %s", goal.Name),
		Notes:       fmt.Sprintf("Aporte manual de %s na meta %s", util.FormatCents(amountCents), goal.Name),
	})
	if err != nil {
		return err
	}
	// contribution is money already moved
	if err := s.db.Model(&models.Transaction{}).
		Where("id IN ? AND user_id = ?", ids, userID).
		Update("is_cleared", true).Error; err != nil {
		return apperror.Consistency("Falha ao registrar o aporte.", err)
	}

	newSaved := goal.SavedCents + amountCents
	nextStatus := goal.Status
	if goal.Status != models.GoalArchived {
		if newSaved >= goal.TargetCents {
			nextStatus = models.GoalCompleted
		} else {
			nextStatus = models.GoalActive
		}
	}
	if err := s.db.Model(&models.Goal{}).
		Where("id = ? AND user_id = ?", goalID, userID).
		Updates(map[string]interface{}{
			"saved_cents": gorm.Expr("saved_cents + ?", amountCents),
			"status":      nextStatus,
		}).Error; err != nil {
		return apperror.Consistency("Falha ao atualizar a meta.", err)
	}
	return nil
}

// ensureGoalCategory returns the id of the reserved goal category,
// creating it when the user does not have one yet.
func (s *Service) ensureGoalCategory(userID uint) (uint, error) {
	var category models.Category
	err := s.db.Where("user_id = ? AND name = ? AND archived = ?", userID, goalCategoryName, false).
		First(&category).Error
	if err == nil {
		return category.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, apperror.Consistency("Falha ao consultar categorias.", err)
	}

	category = models.Category{
		UserID: userID,
		Name:   goalCategoryName,
		Kind:   models.CategoryBoth,
		Color:  "#8b5cf6",
		Icon:   "target",
	}
	if err := s.db.Create(&category).Error; err != nil {
		return 0, apperror.Consistency("Falha ao criar categoria Meta.", err)
	}
	return category.ID, nil
}
