package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/KauaAraujodS/organiza-app/internal/apperror"
	"github.com/KauaAraujodS/organiza-app/internal/models"
	"github.com/KauaAraujodS/organiza-app/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTransaction grava uma transação manual. Dependendo do formato
// da entrada ela vira um par de transferência, um plano de parcelas ou
// uma linha simples (com ou sem splits). Retorna os ids criados: dois
// para transferência, N para parcelamento, um nos demais casos. Em
// qualquer falha de validação nada é persistido.
func (s *Service) CreateTransaction(userID uint, in TransactionInput) ([]uint, error) {
	if in.AccountID == 0 {
		return nil, apperror.Validation("Conta de origem é obrigatória.")
	}
	if in.AmountCents <= 0 {
		return nil, apperror.Validation("Valor da transação deve ser maior que zero.")
	}
	if in.OccurredOn.IsZero() {
		return nil, apperror.Validation("Data da transação é obrigatória.")
	}
	switch in.Type {
	case models.TypeIncome, models.TypeExpense, models.TypeTransfer:
	default:
		return nil, apperror.Validation("Tipo de transação inválido.")
	}

	in.Description = strings.TrimSpace(in.Description)
	in.Notes = strings.TrimSpace(in.Notes)
	in.OccurredOn = util.DateOnly(in.OccurredOn)
	if in.DueOn != nil {
		d := util.DateOnly(*in.DueOn)
		in.DueOn = &d
	}

	if in.Type == models.TypeTransfer {
		return s.createTransfer(userID, in)
	}
	return s.createEntry(userID, in)
}

// createTransfer inserts the two opposite-signed legs atomically.
func (s *Service) createTransfer(userID uint, in TransactionInput) ([]uint, error) {
	if in.DestinationAccountID == 0 {
		return nil, apperror.Validation("Conta de destino é obrigatória na transferência.")
	}
	if in.DestinationAccountID == in.AccountID {
		return nil, apperror.Validation("Origem e destino precisam ser contas diferentes.")
	}
	if len(in.Splits) > 0 {
		return nil, apperror.Validation("Transferência não aceita split.")
	}
	if in.InstallmentCount > 1 {
		return nil, apperror.Validation("Transferência não aceita parcelamento.")
	}

	var ids []uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkAccounts(tx, userID, in.AccountID, in.DestinationAccountID); err != nil {
			return err
		}

		group := uuid.NewString()
		originDesc := in.Description
		destDesc := in.Description
		if originDesc == "" {
			originDesc = "Transferência (saída)"
			destDesc = "Transferência (entrada)"
		}

		legs := []*models.Transaction{
			{
				UserID:          userID,
				Type:            models.TypeTransfer,
				AccountID:       in.AccountID,
				TransferGroupID: group,
				AmountCents:     -in.AmountCents,
				OccurredOn:      in.OccurredOn,
				DueOn:           in.DueOn,
				Description:     originDesc,
				Notes:           in.Notes,
			},
			{
				UserID:          userID,
				Type:            models.TypeTransfer,
				AccountID:       in.DestinationAccountID,
				TransferGroupID: group,
				AmountCents:     in.AmountCents,
				OccurredOn:      in.OccurredOn,
				DueOn:           in.DueOn,
				Description:     destDesc,
				Notes:           in.Notes,
			},
		}

		if err := tx.Create(&legs).Error; err != nil {
			return apperror.Consistency("Falha ao gravar a transferência.", err)
		}
		ids = []uint{legs[0].ID, legs[1].ID}
		return nil
	})
	if err != nil {
		return nil, wrapStore(err, "Falha ao gravar a transferência.")
	}
	return ids, nil
}

// createEntry handles income/expense rows, with optional splits or an
// installment plan (never both).
func (s *Service) createEntry(userID uint, in TransactionInput) ([]uint, error) {
	signed := util.SignedAmount(in.Type, in.AmountCents)

	splits, err := NormalizeSplits(in.Splits, signed)
	if err != nil {
		return nil, err
	}

	count := in.InstallmentCount
	if count < 1 {
		count = 1
	}
	if count > 1 && len(splits) > 0 {
		return nil, apperror.Validation("Split não pode ser usado com parcelamento.")
	}

	var ids []uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkAccounts(tx, userID, in.AccountID); err != nil {
			return err
		}
		if err := checkCategories(tx, userID, in.CategoryID, splits); err != nil {
			return err
		}
		if err := checkDebt(tx, userID, in.DebtID); err != nil {
			return err
		}
		if err := checkTags(tx, userID, in.TagIDs); err != nil {
			return err
		}

		if count > 1 {
			rows, err := buildInstallments(userID, in, signed, count)
			if err != nil {
				return err
			}
			if err := tx.Create(&rows).Error; err != nil {
				return apperror.Consistency("Falha ao gravar o parcelamento.", err)
			}
			ids = make([]uint, 0, len(rows))
			for _, r := range rows {
				ids = append(ids, r.ID)
				if err := insertTagLinks(tx, userID, r.ID, in.TagIDs); err != nil {
					return err
				}
			}
			return nil
		}

		categoryID := in.CategoryID
		if len(splits) > 0 {
			categoryID = nil
		}
		row := models.Transaction{
			UserID:      userID,
			Type:        in.Type,
			AccountID:   in.AccountID,
			CategoryID:  categoryID,
			DebtID:      in.DebtID,
			AmountCents: signed,
			OccurredOn:  in.OccurredOn,
			DueOn:       in.DueOn,
			Description: in.Description,
			Notes:       in.Notes,
		}
		if err := tx.Create(&row).Error; err != nil {
			return apperror.Consistency("Falha ao gravar a transação.", err)
		}
		if err := insertSplits(tx, userID, row.ID, splits); err != nil {
			return err
		}
		if err := insertTagLinks(tx, userID, row.ID, in.TagIDs); err != nil {
			return err
		}
		ids = []uint{row.ID}
		return nil
	})
	if err != nil {
		return nil, wrapStore(err, "Falha ao gravar a transação.")
	}
	return ids, nil
}

// buildInstallments materializes the N rows of an installment plan.
// Dates advance by whole calendar months so due dates track the same
// day of month where the target month allows it.
func buildInstallments(userID uint, in TransactionInput, signed int64, count int) ([]*models.Transaction, error) {
	amounts := AllocateInstallments(signed, count)

	baseDesc := in.Description
	if baseDesc == "" {
		baseDesc = "Lançamento"
	}

	group := uuid.NewString()
	rows := make([]*models.Transaction, 0, count)
	for idx, amount := range amounts {
		occurred := util.AddMonths(in.OccurredOn, idx)
		due := occurred
		if in.DueOn != nil {
			due = util.AddMonths(*in.DueOn, idx)
		}
		rows = append(rows, &models.Transaction{
			UserID:             userID,
			Type:               in.Type,
			AccountID:          in.AccountID,
			CategoryID:         in.CategoryID,
			DebtID:             in.DebtID,
			InstallmentGroupID: group,
			InstallmentNumber:  idx + 1,
			InstallmentTotal:   count,
			AmountCents:        amount,
			OccurredOn:         occurred,
			DueOn:              &due,
			Description:        fmt.Sprintf("%s (%d/%d)", baseDesc, idx+1, count),
			Notes:              in.Notes,
		})
	}
	return rows, nil
}

// UpdateTransaction substitui os campos de uma transação simples.
// Transferências e parcelas não são editáveis: corrigir uma perna ou
// parcela isolada quebraria o invariante do grupo, então a orientação
// é excluir e criar de novo.
func (s *Service) UpdateTransaction(userID, id uint, in TransactionInput) error {
	var row models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return wrapStore(err, "Transação não encontrada.")
	}

	if row.Type == models.TypeTransfer || row.TransferGroupID != "" {
		return apperror.Validation("Edição de transferência não suportada. Exclua e crie novamente.")
	}
	if row.InstallmentGroupID != "" {
		return apperror.Validation("Edição de parcelamento não suportada. Exclua e recrie o parcelamento.")
	}

	if in.Type == models.TypeTransfer {
		return apperror.Validation("Não é possível converter a transação em transferência.")
	}
	if in.Type != models.TypeIncome && in.Type != models.TypeExpense {
		return apperror.Validation("Tipo de transação inválido.")
	}
	if in.AccountID == 0 {
		return apperror.Validation("Conta de origem é obrigatória.")
	}
	if in.AmountCents <= 0 {
		return apperror.Validation("Valor da transação deve ser maior que zero.")
	}
	if in.OccurredOn.IsZero() {
		return apperror.Validation("Data da transação é obrigatória.")
	}

	signed := util.SignedAmount(in.Type, in.AmountCents)
	splits, err := NormalizeSplits(in.Splits, signed)
	if err != nil {
		return err
	}

	categoryID := in.CategoryID
	if len(splits) > 0 {
		categoryID = nil
	}

	occurred := util.DateOnly(in.OccurredOn)
	var due *time.Time
	if in.DueOn != nil {
		d := util.DateOnly(*in.DueOn)
		due = &d
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkAccounts(tx, userID, in.AccountID); err != nil {
			return err
		}
		if err := checkCategories(tx, userID, in.CategoryID, splits); err != nil {
			return err
		}
		if err := checkDebt(tx, userID, in.DebtID); err != nil {
			return err
		}
		if err := checkTags(tx, userID, in.TagIDs); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"type":         in.Type,
			"account_id":   in.AccountID,
			"category_id":  categoryID,
			"debt_id":      in.DebtID,
			"amount_cents": signed,
			"occurred_on":  occurred,
			"due_on":       due,
			"description":  strings.TrimSpace(in.Description),
			"notes":        strings.TrimSpace(in.Notes),
		}
		if err := tx.Model(&models.Transaction{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates).Error; err != nil {
			return apperror.Consistency("Falha ao atualizar a transação.", err)
		}

		// splits and tag links are replaced wholesale, never merged
		if err := tx.Where("transaction_id = ? AND user_id = ?", id, userID).
			Delete(&models.TransactionSplit{}).Error; err != nil {
			return apperror.Consistency("Falha ao atualizar os splits.", err)
		}
		if err := insertSplits(tx, userID, id, splits); err != nil {
			return err
		}
		if err := tx.Where("transaction_id = ? AND user_id = ?", id, userID).
			Delete(&models.TransactionTag{}).Error; err != nil {
			return apperror.Consistency("Falha ao atualizar as tags.", err)
		}
		return insertTagLinks(tx, userID, id, in.TagIDs)
	})
	return wrapStore(err, "Falha ao atualizar a transação.")
}

// DeleteTransaction remove uma transação junto com seu grupo: as duas
// pernas de uma transferência ou todas as parcelas de um parcelamento
// caem juntas, nunca sobra meia transferência.
func (s *Service) DeleteTransaction(userID, id uint) error {
	var row models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return wrapStore(err, "Transação não encontrada.")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		switch {
		case row.TransferGroupID != "":
			if err := tx.Model(&models.Transaction{}).
				Where("transfer_group_id = ? AND user_id = ?", row.TransferGroupID, userID).
				Pluck("id", &ids).Error; err != nil {
				return apperror.Consistency("Falha ao excluir a transferência.", err)
			}
		case row.InstallmentGroupID != "":
			if err := tx.Model(&models.Transaction{}).
				Where("installment_group_id = ? AND user_id = ?", row.InstallmentGroupID, userID).
				Pluck("id", &ids).Error; err != nil {
				return apperror.Consistency("Falha ao excluir o parcelamento.", err)
			}
		default:
			ids = []uint{row.ID}
		}

		if err := tx.Where("transaction_id IN ? AND user_id = ?", ids, userID).
			Delete(&models.TransactionSplit{}).Error; err != nil {
			return apperror.Consistency("Falha ao excluir os splits.", err)
		}
		if err := tx.Where("transaction_id IN ? AND user_id = ?", ids, userID).
			Delete(&models.TransactionTag{}).Error; err != nil {
			return apperror.Consistency("Falha ao excluir as tags.", err)
		}
		if err := tx.Where("id IN ? AND user_id = ?", ids, userID).
			Delete(&models.Transaction{}).Error; err != nil {
			return apperror.Consistency("Falha ao excluir a transação.", err)
		}
		return nil
	})
	return wrapStore(err, "Falha ao excluir a transação.")
}

// ---------- referential checks and side tables ----------

func checkAccounts(tx *gorm.DB, userID uint, ids ...uint) error {
	var count int64
	if err := tx.Model(&models.Account{}).
		Where("id IN ? AND user_id = ?", ids, userID).
		Count(&count).Error; err != nil {
		return apperror.Consistency("Falha ao consultar contas.", err)
	}
	if count != int64(len(ids)) {
		return apperror.NotFound("Conta não encontrada.")
	}
	return nil
}

func checkCategories(tx *gorm.DB, userID uint, categoryID *uint, splits []SplitInput) error {
	idSet := make(map[uint]struct{})
	if categoryID != nil && len(splits) == 0 {
		idSet[*categoryID] = struct{}{}
	}
	for _, s := range splits {
		idSet[s.CategoryID] = struct{}{}
	}
	if len(idSet) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	var count int64
	if err := tx.Model(&models.Category{}).
		Where("id IN ? AND user_id = ?", ids, userID).
		Count(&count).Error; err != nil {
		return apperror.Consistency("Falha ao consultar categorias.", err)
	}
	if count != int64(len(ids)) {
		return apperror.NotFound("Categoria não encontrada.")
	}
	return nil
}

func checkDebt(tx *gorm.DB, userID uint, debtID *uint) error {
	if debtID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Debt{}).
		Where("id = ? AND user_id = ?", *debtID, userID).
		Count(&count).Error; err != nil {
		return apperror.Consistency("Falha ao consultar dívidas.", err)
	}
	if count == 0 {
		return apperror.NotFound("Dívida não encontrada.")
	}
	return nil
}

func checkTags(tx *gorm.DB, userID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Tag{}).
		Where("id IN ? AND user_id = ?", tagIDs, userID).
		Count(&count).Error; err != nil {
		return apperror.Consistency("Falha ao consultar tags.", err)
	}
	if count != int64(len(tagIDs)) {
		return apperror.NotFound("Tag não encontrada.")
	}
	return nil
}

func insertSplits(tx *gorm.DB, userID, transactionID uint, splits []SplitInput) error {
	if len(splits) == 0 {
		return nil
	}
	rows := make([]*models.TransactionSplit, 0, len(splits))
	for _, s := range splits {
		rows = append(rows, &models.TransactionSplit{
			UserID:        userID,
			TransactionID: transactionID,
			CategoryID:    s.CategoryID,
			AmountCents:   s.AmountCents,
			Note:          s.Note,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return apperror.Consistency("Falha ao gravar os splits.", err)
	}
	return nil
}

func insertTagLinks(tx *gorm.DB, userID, transactionID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]*models.TransactionTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, &models.TransactionTag{
			UserID:        userID,
			TransactionID: transactionID,
			TagID:         tagID,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return apperror.Consistency("Falha ao gravar as tags.", err)
	}
	return nil
}
