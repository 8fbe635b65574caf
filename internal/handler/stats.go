package handler

import (
	"net/http"
	"time"

	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StatsHandler struct {
	DB *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{DB: db}
}

// GetMonthlyStats 返回指定月份的统计数据（每日收支 + 类别汇总）。
// 转账不进入统计；有 split 的交易按 split 的类别分摊。
func (h *StatsHandler) GetMonthlyStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// 月份参数：?month=2025-12
	monthStr := c.Query("month")
	if monthStr == "" {
		monthStr = time.Now().Format("2006-01")
	}

	t, err := time.Parse("2006-01", monthStr)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Mês deve estar no formato AAAA-MM.")
		return
	}

	startOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	var txs []models.Transaction
	if err := h.DB.Where("user_id = ? AND type <> ? AND occurred_on >= ? AND occurred_on < ?",
		user.ID, models.TypeTransfer, startOfMonth, endOfMonth).
		Order("occurred_on ASC").
		Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na consulta.")
		return
	}

	// 按日期分组统计
	type dailyStat struct {
		Date         string `json:"date"`
		IncomeCents  int64  `json:"income_cents"`
		ExpenseCents int64  `json:"expense_cents"`
		BalanceCents int64  `json:"balance_cents"`
		Income       string `json:"income"`
		Expense      string `json:"expense"`
		Balance      string `json:"balance"`
	}

	dailyMap := make(map[string]*dailyStat)
	var totalIncomeCents, totalExpenseCents int64
	for i := range txs {
		tx := &txs[i]
		dateKey := tx.OccurredOn.Format(util.DateLayout)

		ds, ok := dailyMap[dateKey]
		if !ok {
			ds = &dailyStat{Date: dateKey}
			dailyMap[dateKey] = ds
		}

		if tx.Type == models.TypeIncome {
			ds.IncomeCents += tx.AmountCents
			totalIncomeCents += tx.AmountCents
		} else {
			ds.ExpenseCents += -tx.AmountCents
			totalExpenseCents += -tx.AmountCents
		}
	}

	var dailyList []dailyStat
	for _, ds := range dailyMap {
		ds.BalanceCents = ds.IncomeCents - ds.ExpenseCents
		ds.Income = util.FormatCents(ds.IncomeCents)
		ds.Expense = util.FormatCents(ds.ExpenseCents)
		ds.Balance = util.FormatCents(ds.BalanceCents)
		dailyList = append(dailyList, *ds)
	}

	// 按类别统计：split 交易按各自类别计入，其余按交易类别
	txIDs := make([]uint, 0, len(txs))
	for i := range txs {
		txIDs = append(txIDs, txs[i].ID)
	}
	splitsByTx := make(map[uint][]models.TransactionSplit)
	if len(txIDs) > 0 {
		var splits []models.TransactionSplit
		if err := h.DB.Where("user_id = ? AND transaction_id IN ?", user.ID, txIDs).
			Find(&splits).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na consulta.")
			return
		}
		for _, s := range splits {
			splitsByTx[s.TransactionID] = append(splitsByTx[s.TransactionID], s)
		}
	}

	var categories []models.Category
	if err := h.DB.Where("user_id = ?", user.ID).Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na consulta.")
		return
	}
	catNames := make(map[uint]string, len(categories))
	for _, cat := range categories {
		catNames[cat.ID] = cat.Name
	}

	type categoryStat struct {
		CategoryID   *uint  `json:"category_id"`
		Category     string `json:"category"`
		IncomeCents  int64  `json:"income_cents"`
		ExpenseCents int64  `json:"expense_cents"`
		Income       string `json:"income"`
		Expense      string `json:"expense"`
	}

	catMap := make(map[string]*categoryStat)
	add := func(categoryID *uint, amountCents int64) {
		name := "Sem categoria"
		if categoryID != nil {
			if n, ok := catNames[*categoryID]; ok {
				name = n
			}
		}
		cs, ok := catMap[name]
		if !ok {
			cs = &categoryStat{CategoryID: categoryID, Category: name}
			catMap[name] = cs
		}
		if amountCents >= 0 {
			cs.IncomeCents += amountCents
		} else {
			cs.ExpenseCents += -amountCents
		}
	}

	for i := range txs {
		tx := &txs[i]
		if splits, ok := splitsByTx[tx.ID]; ok && len(splits) > 0 {
			for _, s := range splits {
				id := s.CategoryID
				add(&id, s.AmountCents)
			}
			continue
		}
		add(tx.CategoryID, tx.AmountCents)
	}

	var catList []categoryStat
	for _, cs := range catMap {
		cs.Income = util.FormatCents(cs.IncomeCents)
		cs.Expense = util.FormatCents(cs.ExpenseCents)
		catList = append(catList, *cs)
	}

	util.Success(c, util.Response{
		"month":         monthStr,
		"daily":         dailyList,
		"by_category":   catList,
		"total_income":  util.FormatCents(totalIncomeCents),
		"total_expense": util.FormatCents(totalExpenseCents),
		"total_balance": util.FormatCents(totalIncomeCents - totalExpenseCents),
	})
}
