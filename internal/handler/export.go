package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportTypeLabels = map[string]string{
	models.TypeIncome:   "Receita",
	models.TypeExpense:  "Despesa",
	models.TypeTransfer: "Transferência",
}

func (h *ExportHandler) loadRows(c *gin.Context, userID uint) ([]models.Transaction, map[uint]string, bool) {
	base := h.DB.Where("user_id = ?", userID)
	if start := c.Query("start"); start != "" {
		t, err := util.ParseDate(start)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Data inicial deve estar no formato AAAA-MM-DD.")
			return nil, nil, false
		}
		base = base.Where("occurred_on >= ?", t)
	}
	if end := c.Query("end"); end != "" {
		t, err := util.ParseDate(end)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Data final deve estar no formato AAAA-MM-DD.")
			return nil, nil, false
		}
		base = base.Where("occurred_on < ?", t.AddDate(0, 0, 1))
	}

	var txs []models.Transaction
	if err := base.Order("occurred_on DESC, id DESC").Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na consulta.")
		return nil, nil, false
	}

	var categories []models.Category
	if err := h.DB.Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na consulta.")
		return nil, nil, false
	}
	catNames := make(map[uint]string, len(categories))
	for _, cat := range categories {
		catNames[cat.ID] = cat.Name
	}
	return txs, catNames, true
}

func exportRow(tx *models.Transaction, catNames map[uint]string) []string {
	category := ""
	if tx.CategoryID != nil {
		category = catNames[*tx.CategoryID]
	}
	return []string{
		exportTypeLabels[tx.Type],
		category,
		util.FormatCents(tx.AmountCents),
		tx.Description,
		tx.OccurredOn.Format(util.DateLayout),
	}
}

// ExportCSV 导出交易为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	txs, catNames, ok := h.loadRows(c, user.ID)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transacoes_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM para o Excel reconhecer acentuação
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write([]string{"Tipo", "Categoria", "Valor", "Descrição", "Data"})
	for i := range txs {
		writer.Write(exportRow(&txs[i], catNames))
	}
}

// ExportXLSX 导出交易为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	txs, catNames, ok := h.loadRows(c, user.ID)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Transações"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao criar planilha.")
		return
	}
	f.SetActiveSheet(index)

	headers := []string{"Tipo", "Categoria", "Valor", "Descrição", "Data"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range txs {
		row := idx + 2
		values := exportRow(&txs[idx], catNames)
		for col, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 18)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 32)
	f.SetColWidth(sheetName, "E", "E", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transacoes_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na exportação.")
	}
}
