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

// AccountHandler 负责账户（conta）相关接口
type AccountHandler struct {
	DB              *gorm.DB
	DefaultCurrency string
}

func NewAccountHandler(db *gorm.DB, defaultCurrency string) *AccountHandler {
	if defaultCurrency == "" {
		defaultCurrency = "BRL"
	}
	return &AccountHandler{DB: db, DefaultCurrency: defaultCurrency}
}

type accountReq struct {
	Name           string `json:"name" binding:"required,max=64"`
	Type           string `json:"type" binding:"required,oneof=checking wallet savings credit_card cash investment"`
	Currency       string `json:"currency" binding:"max=8"`
	OpeningBalance string `json:"opening_balance"`
	Archived       bool   `json:"archived"`
}

func (h *AccountHandler) parse(c *gin.Context) (*accountReq, int64, bool) {
	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos.")
		return nil, 0, false
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Currency == "" {
		req.Currency = h.DefaultCurrency
	}
	var opening int64
	if req.OpeningBalance != "" {
		v, ok := util.ParseMoneyToCents(req.OpeningBalance)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Saldo inicial inválido.")
			return nil, 0, false
		}
		opening = v
	}
	return &req, opening, true
}

func (h *AccountHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	req, opening, ok := h.parse(c)
	if !ok {
		return
	}

	account := models.Account{
		UserID:              user.ID,
		Name:                req.Name,
		Type:                req.Type,
		Currency:            req.Currency,
		OpeningBalanceCents: opening,
		Archived:            req.Archived,
	}
	if err := h.DB.Create(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao criar conta.")
		return
	}
	util.Success(c, util.Response{"id": account.ID})
}

func (h *AccountHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, opening, ok := h.parse(c)
	if !ok {
		return
	}

	res := h.DB.Model(&models.Account{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Updates(map[string]interface{}{
			"name":                  req.Name,
			"type":                  req.Type,
			"currency":              req.Currency,
			"opening_balance_cents": opening,
			"archived":              req.Archived,
		})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao atualizar conta.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Conta não encontrada.")
		return
	}
	util.Success(c, util.Response{"message": "Conta atualizada."})
}

// Delete recusa remover contas que ainda têm transações vinculadas.
func (h *AccountHandler) Delete(c *gin.Context) {
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
		Where("account_id = ? AND user_id = ?", id, user.ID).
		Count(&refs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar transações.")
		return
	}
	if refs > 0 {
		util.ErrorFrom(c, apperror.Policy("Não é possível remover conta com transações vinculadas."))
		return
	}
	var ruleRefs int64
	if err := h.DB.Model(&models.RecurringRule{}).
		Where("account_id = ? AND user_id = ?", id, user.ID).
		Count(&ruleRefs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar recorrências.")
		return
	}
	if ruleRefs > 0 {
		util.ErrorFrom(c, apperror.Policy("Não é possível remover conta usada por recorrências."))
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Account{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao remover conta.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Conta não encontrada.")
		return
	}
	util.Success(c, util.Response{"message": "Conta removida."})
}

// List devolve as contas do usuário com o saldo calculado: saldo
// inicial somado ao total assinado das transações da conta.
func (h *AccountHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("archived ASC, name ASC").
		Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar contas.")
		return
	}

	type accountBalance struct {
		AccountID uint
		Total     int64
	}
	var totals []accountBalance
	if err := h.DB.Model(&models.Transaction{}).
		Select("account_id, COALESCE(SUM(amount_cents), 0) AS total").
		Where("user_id = ?", user.ID).
		Group("account_id").
		Scan(&totals).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao calcular saldos.")
		return
	}
	totalByAccount := make(map[uint]int64, len(totals))
	for _, t := range totals {
		totalByAccount[t.AccountID] = t.Total
	}

	items := make([]gin.H, 0, len(accounts))
	for _, a := range accounts {
		balance := a.OpeningBalanceCents + totalByAccount[a.ID]
		items = append(items, gin.H{
			"id":                    a.ID,
			"name":                  a.Name,
			"type":                  a.Type,
			"currency":              a.Currency,
			"opening_balance_cents": a.OpeningBalanceCents,
			"balance_cents":         balance,
			"balance":               util.FormatCents(balance),
			"archived":              a.Archived,
			"created_at":            a.CreatedAt,
		})
	}
	util.Success(c, util.Response{"items": items})
}
