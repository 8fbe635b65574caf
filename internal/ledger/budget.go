package ledger

import (
	"github.com/KauaAraujodS/organiza-app/internal/apperror"
	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"
)

// Budget alert statuses.
const (
	BudgetStatusOK      = "ok"
	BudgetStatusWarning = "warning" // >= 80% of the limit
	BudgetStatusOver    = "over"    // >= 100% of the limit
)

// BudgetRealization is the read-side aggregation of a budget against
// the ledger. Percentages come from integer ratios; RawPercent is
// unclamped for alerting, Percent is clamped to [0,100] for display.
type BudgetRealization struct {
	RealizedCents int64  `json:"realized_cents"`
	RawPercent    int64  `json:"raw_percent"`
	Percent       int64  `json:"percent"`
	Status        string `json:"status"`
}

// ComputeBudgetRealization soma o valor absoluto das despesas do
// período do orçamento, respeitando o filtro de categoria quando
// houver. Transferências ficam de fora: só type = expense conta.
func (s *Service) ComputeBudgetRealization(userID uint, b *models.Budget) (BudgetRealization, error) {
	q := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TypeExpense).
		Where("occurred_on >= ? AND occurred_on <= ?",
			util.DateOnly(b.PeriodStart), util.DateOnly(b.PeriodEnd))
	if b.CategoryID != nil {
		q = q.Where("category_id = ?", *b.CategoryID)
	}

	var realized int64
	if err := q.Select("COALESCE(SUM(ABS(amount_cents)), 0)").Scan(&realized).Error; err != nil {
		return BudgetRealization{}, apperror.Consistency("Falha ao calcular o orçamento.", err)
	}

	var raw int64
	if b.AmountLimitCents > 0 {
		raw = realized * 100 / b.AmountLimitCents
	}
	clamped := raw
	if clamped > 100 {
		clamped = 100
	}
	if clamped < 0 {
		clamped = 0
	}

	status := BudgetStatusOK
	switch {
	case raw >= 100:
		status = BudgetStatusOver
	case raw >= 80:
		status = BudgetStatusWarning
	}

	return BudgetRealization{
		RealizedCents: realized,
		RawPercent:    raw,
		Percent:       clamped,
		Status:        status,
	}, nil
}
