package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/KauaAraujodS/organiza-app/internal/ledger"
	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GoalHandler 负责储蓄目标（meta）相关接口
type GoalHandler struct {
	DB  *gorm.DB
	Svc *ledger.Service
}

func NewGoalHandler(db *gorm.DB, svc *ledger.Service) *GoalHandler {
	return &GoalHandler{DB: db, Svc: svc}
}

type goalReq struct {
	Name         string `json:"name" binding:"required,max=128"`
	TargetAmount string `json:"target_amount" binding:"required"`
	TargetDate   string `json:"target_date"`
	Status       string `json:"status" binding:"omitempty,oneof=active paused completed archived"`
}

func (h *GoalHandler) parse(c *gin.Context) (*models.Goal, bool) {
	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos.")
		return nil, false
	}

	target, ok := util.ParseMoneyToCents(req.TargetAmount)
	if !ok || target <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Valor alvo da meta deve ser maior que zero.")
		return nil, false
	}

	goal := models.Goal{
		Name:        strings.TrimSpace(req.Name),
		TargetCents: target,
		Status:      req.Status,
	}
	if goal.Status == "" {
		goal.Status = models.GoalActive
	}
	if req.TargetDate != "" {
		d, err := util.ParseDate(req.TargetDate)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Data alvo inválida.")
			return nil, false
		}
		goal.TargetDate = &d
	}
	return &goal, true
}

func (h *GoalHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	goal, ok := h.parse(c)
	if !ok {
		return
	}
	goal.UserID = user.ID

	if err := h.DB.Create(goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao criar meta.")
		return
	}
	util.Success(c, util.Response{"id": goal.ID})
}

func (h *GoalHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	goal, ok := h.parse(c)
	if !ok {
		return
	}

	res := h.DB.Model(&models.Goal{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Updates(map[string]interface{}{
			"name":         goal.Name,
			"target_cents": goal.TargetCents,
			"target_date":  goal.TargetDate,
			"status":       goal.Status,
		})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao atualizar meta.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Meta não encontrada.")
		return
	}
	util.Success(c, util.Response{"message": "Meta atualizada."})
}

func (h *GoalHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Goal{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao remover meta.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Meta não encontrada.")
		return
	}
	util.Success(c, util.Response{"message": "Meta removida."})
}

// List devolve as metas com o percentual de progresso calculado.
func (h *GoalHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var goals []models.Goal
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("status ASC, target_date ASC, name ASC").
		Find(&goals).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar metas.")
		return
	}

	items := make([]gin.H, 0, len(goals))
	for _, g := range goals {
		var percent float64
		if g.TargetCents > 0 {
			percent = float64(g.SavedCents) / float64(g.TargetCents) * 100
		}
		items = append(items, gin.H{
			"id":           g.ID,
			"name":         g.Name,
			"target_cents": g.TargetCents,
			"saved_cents":  g.SavedCents,
			"target_date":  g.TargetDate,
			"status":       g.Status,
			"percent":      percent,
			"created_at":   g.CreatedAt,
		})
	}
	util.Success(c, util.Response{"items": items})
}

type goalContributionReq struct {
	AccountID  uint   `json:"account_id" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
	OccurredOn string `json:"occurred_on"`
}

// Contribute registra um aporte: cria a transação de despesa na conta
// de origem e atualiza o total poupado da meta.
func (h *GoalHandler) Contribute(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req goalContributionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos.")
		return
	}
	amount, okAmount := util.ParseMoneyToCents(req.Amount)
	if !okAmount || amount <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Valor do aporte deve ser maior que zero.")
		return
	}
	occurredOn := time.Now()
	if req.OccurredOn != "" {
		d, err := util.ParseDate(req.OccurredOn)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Data do aporte inválida.")
			return
		}
		occurredOn = d
	}

	if err := h.Svc.AddGoalContribution(user.ID, id, req.AccountID, amount, occurredOn); err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, util.Response{"message": "Aporte registrado."})
}
