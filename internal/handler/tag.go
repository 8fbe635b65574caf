package handler

import (
	"net/http"
	"strings"

	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TagHandler struct {
	DB *gorm.DB
}

func NewTagHandler(db *gorm.DB) *TagHandler {
	return &TagHandler{DB: db}
}

type tagReq struct {
	Name  string `json:"name" binding:"required,max=64"`
	Color string `json:"color" binding:"max=16"`
}

func (h *TagHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req tagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos.")
		return
	}

	tag := models.Tag{
		UserID: user.ID,
		Name:   strings.TrimSpace(req.Name),
		Color:  req.Color,
	}
	if err := h.DB.Create(&tag).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao criar tag.")
		return
	}
	util.Success(c, util.Response{"id": tag.ID})
}

func (h *TagHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req tagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos.")
		return
	}

	res := h.DB.Model(&models.Tag{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Updates(map[string]interface{}{
			"name":  strings.TrimSpace(req.Name),
			"color": req.Color,
		})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao atualizar tag.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Tag não encontrada.")
		return
	}
	util.Success(c, util.Response{"message": "Tag atualizada."})
}

// Delete removes the tag and its transaction links together.
func (h *TagHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ? AND user_id = ?", id, user.ID).
			Delete(&models.TransactionTag{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Tag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Tag não encontrada.")
		return
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao remover tag.")
		return
	}
	util.Success(c, util.Response{"message": "Tag removida."})
}

func (h *TagHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var tags []models.Tag
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("name ASC").
		Find(&tags).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao consultar tags.")
		return
	}
	util.Success(c, util.Response{"items": tags})
}
