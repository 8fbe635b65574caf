package handler

import (
	"net/http"
	"time"

	"github.com/KauaAraujodS/organiza-app/internal/ledger"
	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RecurringHandler struct {
	DB  *gorm.DB
	Svc *ledger.Service
}

func NewRecurringHandler(db *gorm.DB, svc *ledger.Service) *RecurringHandler {
	return &RecurringHandler{DB: db, Svc: svc}
}

type recurringReq struct {
	Title               string `json:"title" binding:"required,max=128"`
	Type                string `json:"type" binding:"required,oneof=income expense transfer"`
	AccountID           uint   `json:"account_id" binding:"required"`
	CategoryID          *uint  `json:"category_id"`
	Amount              string `json:"amount" binding:"required"`
	Freq                string `json:"freq" binding:"required,oneof=daily weekly monthly yearly"`
	IntervalCount       int    `json:"interval_count"`
	StartOn             string `json:"start_on" binding:"required"`
	EndOn               string `json:"end_on"`
	Timezone            string `json:"timezone"`
	AutoCreateDaysAhead int    `json:"auto_create_days_ahead"`
	Active              *bool  `json:"active"`
}

func parseRuleInput(c *gin.Context) (*ledger.RuleInput, bool) {
	var req recurringReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos.")
		return nil, false
	}

	amount, ok := util.ParseMoneyToCents(req.Amount)
	if !ok || amount <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Informe um valor válido.")
		return nil, false
	}
	startOn, err := util.ParseDate(req.StartOn)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Data de início deve estar no formato AAAA-MM-DD.")
		return nil, false
	}

	in := ledger.RuleInput{
		Title:               req.Title,
		Type:                req.Type,
		AccountID:           req.AccountID,
		CategoryID:          req.CategoryID,
		AmountCents:         amount,
		Freq:                req.Freq,
		IntervalCount:       req.IntervalCount,
		StartOn:             startOn,
		Timezone:            req.Timezone,
		AutoCreateDaysAhead: req.AutoCreateDaysAhead,
		Active:              true,
	}
	if in.IntervalCount == 0 {
		in.IntervalCount = 1
	}
	if req.Active != nil {
		in.Active = *req.Active
	}
	if req.EndOn != "" {
		endOn, err := util.ParseDate(req.EndOn)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Data final deve estar no formato AAAA-MM-DD.")
			return nil, false
		}
		in.EndOn = &endOn
	}
	return &in, true
}

func (h *RecurringHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	in, ok := parseRuleInput(c)
	if !ok {
		return
	}

	id, err := h.Svc.CreateRule(user.ID, *in)
	if err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, util.Response{"id": id})
}

func (h *RecurringHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	in, ok := parseRuleInput(c)
	if !ok {
		return
	}

	if err := h.Svc.UpdateRule(user.ID, id, *in); err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, util.Response{"message": "Recorrência atualizada."})
}

func (h *RecurringHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Svc.DeleteRule(user.ID, id); err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, util.Response{"message": "Recorrência removida."})
}

func (h *RecurringHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var rules []models.RecurringRule
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("active DESC, next_run_at ASC").
		Find(&rules).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar recorrências.")
		return
	}

	items := make([]gin.H, 0, len(rules))
	for _, r := range rules {
		item := gin.H{
			"id":                     r.ID,
			"title":                  r.Title,
			"type":                   r.Type,
			"account_id":             r.AccountID,
			"category_id":            r.CategoryID,
			"amount_cents":           r.AmountCents,
			"amount":                 util.FormatCents(r.AmountCents),
			"freq":                   r.Freq,
			"interval_count":         r.IntervalCount,
			"start_on":               r.StartOn.Format(util.DateLayout),
			"next_run_at":            r.NextRunAt,
			"last_run_at":            r.LastRunAt,
			"auto_create_days_ahead": r.AutoCreateDaysAhead,
			"active":                 r.Active,
		}
		if r.EndOn != nil {
			item["end_on"] = r.EndOn.Format(util.DateLayout)
		}
		items = append(items, item)
	}
	util.Success(c, util.Response{"items": items})
}

// RunDue executa um passo do agendador para o usuário atual e devolve
// quantas transações foram geradas.
func (h *RecurringHandler) RunDue(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	generated, err := h.Svc.RunDueRecurrences(user.ID, time.Now())
	if err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, util.Response{"generated": generated})
}
