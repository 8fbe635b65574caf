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

type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type categoryReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Kind     string `json:"kind" binding:"required,oneof=income expense both"`
	ParentID *uint  `json:"parent_id"`
	Color    string `json:"color" binding:"max=16"`
	Icon     string `json:"icon" binding:"max=32"`
	Archived bool   `json:"archived"`
}

// checkParent enforces the single level of hierarchy: a parent must
// exist, belong to the user and itself have no parent.
func (h *CategoryHandler) checkParent(c *gin.Context, userID uint, parentID *uint, selfID uint) bool {
	if parentID == nil {
		return true
	}
	if selfID != 0 && *parentID == selfID {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Categoria não pode ser pai de si mesma.")
		return false
	}
	var parent models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", *parentID, userID).First(&parent).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Categoria pai não encontrada.")
		return false
	}
	if parent.ParentID != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"Apenas um nível de subcategorias é permitido.")
		return false
	}
	return true
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos.")
		return
	}
	if !h.checkParent(c, user.ID, req.ParentID, 0) {
		return
	}

	category := models.Category{
		UserID:   user.ID,
		Name:     strings.TrimSpace(req.Name),
		Kind:     req.Kind,
		ParentID: req.ParentID,
		Color:    req.Color,
		Icon:     req.Icon,
		Archived: req.Archived,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao criar categoria.")
		return
	}
	util.Success(c, util.Response{"id": category.ID})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos.")
		return
	}
	if !h.checkParent(c, user.ID, req.ParentID, id) {
		return
	}

	res := h.DB.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Updates(map[string]interface{}{
			"name":      strings.TrimSpace(req.Name),
			"kind":      req.Kind,
			"parent_id": req.ParentID,
			"color":     req.Color,
			"icon":      req.Icon,
			"archived":  req.Archived,
		})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao atualizar categoria.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Categoria não encontrada.")
		return
	}
	util.Success(c, util.Response{"message": "Categoria atualizada."})
}

// Delete recusa remover categorias referenciadas por transações,
// splits, recorrências ou subcategorias.
func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	checks := []struct {
		model interface{}
		where string
		msg   string
	}{
		{&models.Transaction{}, "category_id = ? AND user_id = ?", "Categoria com transações não pode ser removida."},
		{&models.TransactionSplit{}, "category_id = ? AND user_id = ?", "Categoria usada em splits não pode ser removida."},
		{&models.RecurringRule{}, "category_id = ? AND user_id = ?", "Categoria usada por recorrências não pode ser removida."},
		{&models.Category{}, "parent_id = ? AND user_id = ?", "Categoria com subcategorias não pode ser removida."},
	}
	for _, chk := range checks {
		var refs int64
		if err := h.DB.Model(chk.model).Where(chk.where, id, user.ID).Count(&refs).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar referências.")
			return
		}
		if refs > 0 {
			util.ErrorFrom(c, apperror.Policy(chk.msg))
			return
		}
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Category{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao remover categoria.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Categoria não encontrada.")
		return
	}
	util.Success(c, util.Response{"message": "Categoria removida."})
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var categories []models.Category
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("kind ASC, name ASC").
		Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar categorias.")
		return
	}
	util.Success(c, util.Response{"items": categories})
}
