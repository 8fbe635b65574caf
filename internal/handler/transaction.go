package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/KauaAraujodS/organiza-app/internal/ledger"
	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler expõe o motor do livro-razão pela API. Toda a
// lógica de escrita (transferências, parcelas, splits) fica no
// ledger.Service; aqui só se traduz requisição e resposta.
type TransactionHandler struct {
	DB       *gorm.DB
	Svc      *ledger.Service
	PageSize int
}

func NewTransactionHandler(db *gorm.DB, svc *ledger.Service, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{DB: db, Svc: svc, PageSize: pageSize}
}

type splitReq struct {
	CategoryID uint   `json:"category_id" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
	Note       string `json:"note" binding:"max=255"`
}

type transactionReq struct {
	Type                 string     `json:"type" binding:"required,oneof=income expense transfer"`
	AccountID            uint       `json:"account_id" binding:"required"`
	DestinationAccountID uint       `json:"destination_account_id"`
	CategoryID           *uint      `json:"category_id"`
	DebtID               *uint      `json:"debt_id"`
	Amount               string     `json:"amount" binding:"required"`
	OccurredOn           string     `json:"occurred_on" binding:"required"`
	DueOn                string     `json:"due_on"`
	Description          string     `json:"description" binding:"max=255"`
	Notes                string     `json:"notes"`
	InstallmentCount     int        `json:"installment_count"`
	TagIDs               []uint     `json:"tag_ids"`
	Splits               []splitReq `json:"splits"`
}

func (h *TransactionHandler) parseInput(c *gin.Context) (*ledger.TransactionInput, bool) {
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos.")
		return nil, false
	}

	amount, ok := util.ParseMoneyToCents(req.Amount)
	if !ok || amount <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Informe um valor válido.")
		return nil, false
	}

	occurred, err := util.ParseDate(req.OccurredOn)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Data deve estar no formato AAAA-MM-DD.")
		return nil, false
	}

	in := ledger.TransactionInput{
		Type:                 req.Type,
		AccountID:            req.AccountID,
		DestinationAccountID: req.DestinationAccountID,
		CategoryID:           req.CategoryID,
		DebtID:               req.DebtID,
		AmountCents:          amount,
		OccurredOn:           occurred,
		Description:          req.Description,
		Notes:                req.Notes,
		InstallmentCount:     req.InstallmentCount,
		TagIDs:               req.TagIDs,
	}

	if req.DueOn != "" {
		due, err := util.ParseDate(req.DueOn)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Vencimento deve estar no formato AAAA-MM-DD.")
			return nil, false
		}
		in.DueOn = &due
	}

	for _, s := range req.Splits {
		v, ok := util.ParseMoneyToCents(s.Amount)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Valor de split inválido.")
			return nil, false
		}
		in.Splits = append(in.Splits, ledger.SplitInput{
			CategoryID:  s.CategoryID,
			AmountCents: v,
			Note:        s.Note,
		})
	}
	return &in, true
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	in, ok := h.parseInput(c)
	if !ok {
		return
	}

	ids, err := h.Svc.CreateTransaction(user.ID, *in)
	if err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, util.Response{"ids": ids})
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	in, ok := h.parseInput(c)
	if !ok {
		return
	}

	if err := h.Svc.UpdateTransaction(user.ID, id, *in); err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, util.Response{"message": "Transação atualizada."})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Svc.DeleteTransaction(user.ID, id); err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, util.Response{"message": "Transação removida."})
}

type transactionResp struct {
	ID                 uint      `json:"id"`
	Type               string    `json:"type"`
	AccountID          uint      `json:"account_id"`
	CategoryID         *uint     `json:"category_id"`
	TransferGroupID    string    `json:"transfer_group_id,omitempty"`
	InstallmentGroupID string    `json:"installment_group_id,omitempty"`
	InstallmentNumber  int       `json:"installment_number,omitempty"`
	InstallmentTotal   int       `json:"installment_total,omitempty"`
	RecurringRuleID    *uint     `json:"recurring_rule_id,omitempty"`
	DebtID             *uint     `json:"debt_id,omitempty"`
	AmountCents        int64     `json:"amount_cents"`
	Amount             string    `json:"amount"`
	OccurredOn         string    `json:"occurred_on"`
	DueOn              *string   `json:"due_on,omitempty"`
	Description        string    `json:"description"`
	Notes              string    `json:"notes,omitempty"`
	IsCleared          bool      `json:"is_cleared"`
	CreatedAt          time.Time `json:"created_at"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	resp := transactionResp{
		ID:                 t.ID,
		Type:               t.Type,
		AccountID:          t.AccountID,
		CategoryID:         t.CategoryID,
		TransferGroupID:    t.TransferGroupID,
		InstallmentGroupID: t.InstallmentGroupID,
		InstallmentNumber:  t.InstallmentNumber,
		InstallmentTotal:   t.InstallmentTotal,
		RecurringRuleID:    t.RecurringRuleID,
		DebtID:             t.DebtID,
		AmountCents:        t.AmountCents,
		Amount:             util.FormatCents(t.AmountCents),
		OccurredOn:         t.OccurredOn.Format(util.DateLayout),
		Description:        t.Description,
		Notes:              t.Notes,
		IsCleared:          t.IsCleared,
		CreatedAt:          t.CreatedAt,
	}
	if t.DueOn != nil {
		d := t.DueOn.Format(util.DateLayout)
		resp.DueOn = &d
	}
	return resp
}

// List 查询账目列表，支持时间范围、类型、账户、类别筛选和排序，
// 同时返回相同筛选条件下的收支汇总。
func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.PageSize)))
	if size <= 0 || size > 100 {
		size = h.PageSize
	}
	offset := (page - 1) * size

	base := h.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID)

	if startStr := c.Query("start"); startStr != "" {
		start, err := util.ParseDate(startStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Data inicial deve estar no formato AAAA-MM-DD.")
			return
		}
		base = base.Where("occurred_on >= ?", start)
	}
	if endStr := c.Query("end"); endStr != "" {
		end, err := util.ParseDate(endStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Data final deve estar no formato AAAA-MM-DD.")
			return
		}
		base = base.Where("occurred_on <= ?", end)
	}
	switch txType := c.Query("type"); txType {
	case models.TypeIncome, models.TypeExpense, models.TypeTransfer:
		base = base.Where("type = ?", txType)
	}
	if accStr := c.Query("account_id"); accStr != "" {
		if accID, err := strconv.Atoi(accStr); err == nil && accID > 0 {
			base = base.Where("account_id = ?", accID)
		}
	}
	if catStr := c.Query("category_id"); catStr != "" {
		if catID, err := strconv.Atoi(catStr); err == nil && catID > 0 {
			base = base.Where("category_id = ?", catID)
		}
	}

	orderBy := "occurred_on DESC, id DESC"
	switch c.DefaultQuery("sort", "date_desc") {
	case "date_asc":
		orderBy = "occurred_on ASC, id ASC"
	case "amount_desc":
		orderBy = "amount_cents DESC, id DESC"
	case "amount_asc":
		orderBy = "amount_cents ASC, id ASC"
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na consulta.")
		return
	}

	var rows []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Order(orderBy).
		Limit(size).
		Offset(offset).
		Find(&rows).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na consulta.")
		return
	}

	items := make([]transactionResp, 0, len(rows))
	for i := range rows {
		items = append(items, toTransactionResp(&rows[i]))
	}

	// summary under the same filters; transfers cancel out and are
	// reported separately
	type sums struct {
		Income   int64
		Expense  int64
		Transfer int64
	}
	var sm sums
	if err := base.Session(&gorm.Session{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0) AS income, " +
				"COALESCE(SUM(CASE WHEN type = 'expense' THEN ABS(amount_cents) ELSE 0 END), 0) AS expense, " +
				"COALESCE(SUM(CASE WHEN type = 'transfer' AND amount_cents < 0 THEN ABS(amount_cents) ELSE 0 END), 0) AS transfer").
		Scan(&sm).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na consulta.")
		return
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
		"summary": gin.H{
			"total_income_cents":   sm.Income,
			"total_income":         util.FormatCents(sm.Income),
			"total_expense_cents":  sm.Expense,
			"total_expense":        util.FormatCents(sm.Expense),
			"total_transfer_cents": sm.Transfer,
			"balance_cents":        sm.Income - sm.Expense,
			"balance":              util.FormatCents(sm.Income - sm.Expense),
		},
	})
}

// Get returns one transaction with its splits and tags.
func (h *TransactionHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var row models.Transaction
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Transação não encontrada.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na consulta.")
		}
		return
	}

	var splits []models.TransactionSplit
	if err := h.DB.Where("transaction_id = ? AND user_id = ?", id, user.ID).
		Find(&splits).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na consulta.")
		return
	}

	var tagIDs []uint
	if err := h.DB.Model(&models.TransactionTag{}).
		Where("transaction_id = ? AND user_id = ?", id, user.ID).
		Pluck("tag_id", &tagIDs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na consulta.")
		return
	}

	splitItems := make([]gin.H, 0, len(splits))
	for _, s := range splits {
		splitItems = append(splitItems, gin.H{
			"category_id":  s.CategoryID,
			"amount_cents": s.AmountCents,
			"amount":       util.FormatCents(s.AmountCents),
			"note":         s.Note,
		})
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(&row),
		"splits":      splitItems,
		"tag_ids":     tagIDs,
	})
}
