package handler

import (
	"net/http"

	"github.com/KauaAraujodS/organiza-app/internal/apperror"
	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CardHandler gerencia o ciclo de fatura das contas do tipo cartão.
type CardHandler struct {
	DB *gorm.DB
}

func NewCardHandler(db *gorm.DB) *CardHandler {
	return &CardHandler{DB: db}
}

type cardReq struct {
	AccountID       uint   `json:"account_id" binding:"required"`
	ClosingDay      int    `json:"closing_day" binding:"required,min=1,max=31"`
	DueDay          int    `json:"due_day" binding:"required,min=1,max=31"`
	CreditLimit     string `json:"credit_limit"`
	CurrentDue      string `json:"current_due"`
	BestPurchaseDay *int   `json:"best_purchase_day" binding:"omitempty,min=1,max=31"`
}

func (h *CardHandler) parse(c *gin.Context, userID uint) (*models.CardProfile, bool) {
	var req cardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos.")
		return nil, false
	}

	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", req.AccountID, userID).
		First(&account).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Conta não encontrada.")
		return nil, false
	}
	if account.Type != models.AccountCreditCard {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "A conta selecionada precisa ser do tipo cartão.")
		return nil, false
	}

	card := models.CardProfile{
		UserID:          userID,
		AccountID:       req.AccountID,
		ClosingDay:      req.ClosingDay,
		DueDay:          req.DueDay,
		BestPurchaseDay: req.BestPurchaseDay,
	}
	if req.CreditLimit != "" {
		v, ok := util.ParseMoneyToCents(req.CreditLimit)
		if !ok || v < 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Limite do cartão inválido.")
			return nil, false
		}
		card.CreditLimitCents = &v
	}
	if req.CurrentDue != "" {
		v, ok := util.ParseMoneyToCents(req.CurrentDue)
		if !ok || v < 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Valor da fatura inválido.")
			return nil, false
		}
		card.CurrentDueCents = v
	}
	return &card, true
}

func (h *CardHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	card, ok := h.parse(c, user.ID)
	if !ok {
		return
	}

	var existing int64
	if err := h.DB.Model(&models.CardProfile{}).
		Where("account_id = ?", card.AccountID).
		Count(&existing).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar cartões.")
		return
	}
	if existing > 0 {
		util.ErrorFrom(c, apperror.Policy("A conta já possui um cartão cadastrado."))
		return
	}

	if err := h.DB.Create(card).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao criar cartão.")
		return
	}
	util.Success(c, util.Response{"id": card.ID})
}

func (h *CardHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	card, ok := h.parse(c, user.ID)
	if !ok {
		return
	}

	res := h.DB.Model(&models.CardProfile{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Updates(map[string]interface{}{
			"closing_day":        card.ClosingDay,
			"due_day":            card.DueDay,
			"credit_limit_cents": card.CreditLimitCents,
			"current_due_cents":  card.CurrentDueCents,
			"best_purchase_day":  card.BestPurchaseDay,
		})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao atualizar cartão.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Cartão não encontrado.")
		return
	}
	util.Success(c, util.Response{"message": "Cartão atualizado."})
}

func (h *CardHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.CardProfile{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao remover cartão.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Cartão não encontrado.")
		return
	}
	util.Success(c, util.Response{"message": "Cartão removido."})
}

func (h *CardHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var cards []models.CardProfile
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("id ASC").
		Find(&cards).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar cartões.")
		return
	}
	util.Success(c, util.Response{"items": cards})
}
