package handler

import (
	"net/http"
	"strings"

	"github.com/KauaAraujodS/organiza-app/internal/ledger"
	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BudgetHandler struct {
	DB  *gorm.DB
	Svc *ledger.Service
}

func NewBudgetHandler(db *gorm.DB, svc *ledger.Service) *BudgetHandler {
	return &BudgetHandler{DB: db, Svc: svc}
}

type budgetReq struct {
	Name        string `json:"name" binding:"required,max=128"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	AmountLimit string `json:"amount_limit" binding:"required"`
	CategoryID  *uint  `json:"category_id"`
}

func (h *BudgetHandler) parse(c *gin.Context, userID uint) (*models.Budget, bool) {
	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos.")
		return nil, false
	}

	limit, ok := util.ParseMoneyToCents(req.AmountLimit)
	if !ok || limit <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Valor do orçamento deve ser maior que zero.")
		return nil, false
	}
	start, err := util.ParseDate(req.PeriodStart)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Período inicial deve estar no formato AAAA-MM-DD.")
		return nil, false
	}
	end, err := util.ParseDate(req.PeriodEnd)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Período final deve estar no formato AAAA-MM-DD.")
		return nil, false
	}
	if end.Before(start) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Período inválido.")
		return nil, false
	}
	if req.CategoryID != nil {
		var count int64
		if err := h.DB.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *req.CategoryID, userID).
			Count(&count).Error; err != nil || count == 0 {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Categoria não encontrada.")
			return nil, false
		}
	}

	return &models.Budget{
		UserID:           userID,
		Name:             strings.TrimSpace(req.Name),
		PeriodStart:      start,
		PeriodEnd:        end,
		AmountLimitCents: limit,
		CategoryID:       req.CategoryID,
	}, true
}

func (h *BudgetHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	budget, ok := h.parse(c, user.ID)
	if !ok {
		return
	}

	if err := h.DB.Create(budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao criar orçamento.")
		return
	}
	util.Success(c, util.Response{"id": budget.ID})
}

func (h *BudgetHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	budget, ok := h.parse(c, user.ID)
	if !ok {
		return
	}

	res := h.DB.Model(&models.Budget{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Updates(map[string]interface{}{
			"name":               budget.Name,
			"period_start":       budget.PeriodStart,
			"period_end":         budget.PeriodEnd,
			"amount_limit_cents": budget.AmountLimitCents,
			"category_id":        budget.CategoryID,
		})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao atualizar orçamento.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Orçamento não encontrado.")
		return
	}
	util.Success(c, util.Response{"message": "Orçamento atualizado."})
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Budget{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao remover orçamento.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Orçamento não encontrado.")
		return
	}
	util.Success(c, util.Response{"message": "Orçamento removido."})
}

// List devolve cada orçamento já com a realização calculada contra o
// livro-razão (planejado vs. realizado).
func (h *BudgetHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var budgets []models.Budget
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("period_start DESC").
		Find(&budgets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar orçamentos.")
		return
	}

	items := make([]gin.H, 0, len(budgets))
	for i := range budgets {
		b := &budgets[i]
		realization, err := h.Svc.ComputeBudgetRealization(user.ID, b)
		if err != nil {
			util.ErrorFrom(c, err)
			return
		}
		items = append(items, gin.H{
			"id":                 b.ID,
			"name":               b.Name,
			"period_start":       b.PeriodStart.Format(util.DateLayout),
			"period_end":         b.PeriodEnd.Format(util.DateLayout),
			"amount_limit_cents": b.AmountLimitCents,
			"amount_limit":       util.FormatCents(b.AmountLimitCents),
			"category_id":        b.CategoryID,
			"realized_cents":     realization.RealizedCents,
			"realized":           util.FormatCents(realization.RealizedCents),
			"percent":            realization.Percent,
			"raw_percent":        realization.RawPercent,
			"status":             realization.Status,
		})
	}
	util.Success(c, util.Response{"items": items})
}

// Realization computes planned-vs-realized for a single budget.
func (h *BudgetHandler) Realization(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var budget models.Budget
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&budget).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Orçamento não encontrado.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na consulta.")
		}
		return
	}

	realization, err := h.Svc.ComputeBudgetRealization(user.ID, &budget)
	if err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, util.Response{
		"realized_cents": realization.RealizedCents,
		"realized":       util.FormatCents(realization.RealizedCents),
		"percent":        realization.Percent,
		"raw_percent":    realization.RawPercent,
		"status":         realization.Status,
	})
}
