package handler

import (
	"net/http"
	"strings"

	"github.com/KauaAraujodS/organiza-app/internal/apperror"
	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DebtHandler struct {
	DB *gorm.DB
}

func NewDebtHandler(db *gorm.DB) *DebtHandler {
	return &DebtHandler{DB: db}
}

type debtReq struct {
	Name                string   `json:"name" binding:"required,max=128"`
	Creditor            string   `json:"creditor" binding:"max=128"`
	TotalAmount         string   `json:"total_amount" binding:"required"`
	Outstanding         string   `json:"outstanding" binding:"required"`
	InterestRateMonthly *float64 `json:"interest_rate_monthly"`
	DueOn               string   `json:"due_on"`
	Status              string   `json:"status" binding:"omitempty,oneof=open renegotiated paid canceled"`
	Notes               string   `json:"notes"`
}

func (h *DebtHandler) parse(c *gin.Context) (*models.Debt, bool) {
	var req debtReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos.")
		return nil, false
	}

	total, ok := util.ParseMoneyToCents(req.TotalAmount)
	if !ok || total <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Valor total da dívida inválido.")
		return nil, false
	}
	outstanding, ok := util.ParseMoneyToCents(req.Outstanding)
	if !ok || outstanding < 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Valor em aberto inválido.")
		return nil, false
	}

	debt := models.Debt{
		Name:                strings.TrimSpace(req.Name),
		Creditor:            strings.TrimSpace(req.Creditor),
		TotalAmountCents:    total,
		OutstandingCents:    outstanding,
		InterestRateMonthly: req.InterestRateMonthly,
		Status:              req.Status,
		Notes:               strings.TrimSpace(req.Notes),
	}
	if debt.Status == "" {
		debt.Status = models.DebtOpen
	}
	if req.DueOn != "" {
		d, err := util.ParseDate(req.DueOn)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Data de vencimento inválida.")
			return nil, false
		}
		debt.DueOn = &d
	}
	return &debt, true
}

func (h *DebtHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	debt, ok := h.parse(c)
	if !ok {
		return
	}
	debt.UserID = user.ID

	if err := h.DB.Create(debt).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao criar dívida.")
		return
	}
	util.Success(c, util.Response{"id": debt.ID})
}

func (h *DebtHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	debt, ok := h.parse(c)
	if !ok {
		return
	}

	res := h.DB.Model(&models.Debt{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Updates(map[string]interface{}{
			"name":                  debt.Name,
			"creditor":              debt.Creditor,
			"total_amount_cents":    debt.TotalAmountCents,
			"outstanding_cents":     debt.OutstandingCents,
			"interest_rate_monthly": debt.InterestRateMonthly,
			"due_on":                debt.DueOn,
			"status":                debt.Status,
			"notes":                 debt.Notes,
		})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao atualizar dívida.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Dívida não encontrada.")
		return
	}
	util.Success(c, util.Response{"message": "Dívida atualizada."})
}

// Delete recusa remover dívidas ainda referenciadas por transações.
func (h *DebtHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var refs int64
	if err := h.DB.Model(&models.Transaction{}).
		Where("debt_id = ? AND user_id = ?", id, user.ID).
		Count(&refs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar transações.")
		return
	}
	if refs > 0 {
		util.ErrorFrom(c, apperror.Policy("Não é possível remover dívida com transações vinculadas."))
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Debt{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao remover dívida.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Dívida não encontrada.")
		return
	}
	util.Success(c, util.Response{"message": "Dívida removida."})
}

func (h *DebtHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var debts []models.Debt
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("status ASC, due_on ASC").
		Find(&debts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar dívidas.")
		return
	}
	util.Success(c, util.Response{"items": debts})
}
