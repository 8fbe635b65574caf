package ledger

import (
	"errors"
	"time"

	"github.com/KauaAraujodS/organiza-app/internal/apperror"

	"gorm.io/gorm"
)

// Service implementa o motor do livro-razão: criação/edição/remoção de
// transações (com splits, parcelamentos e transferências), o agendador
// de recorrências e o cálculo de realização de orçamento. Toda escrita
// multi-linha roda dentro de uma transação do banco.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SplitInput is one category sub-allocation. AmountCents is a
// magnitude; the validator re-signs it to match the transaction total.
type SplitInput struct {
	CategoryID  uint
	AmountCents int64
	Note        string
}

// TransactionInput carries everything the writer needs to create or
// replace a transaction. AmountCents is a positive magnitude; the sign
// is derived from Type.
type TransactionInput struct {
	Type                 string
	AccountID            uint
	DestinationAccountID uint // transfers only
	CategoryID           *uint
	DebtID               *uint
	AmountCents          int64
	OccurredOn           time.Time
	DueOn                *time.Time
	Description          string
	Notes                string
	InstallmentCount     int
	TagIDs               []uint
	Splits               []SplitInput
}

// wrapStore passes business errors through untouched and converts
// anything the store returned into a consistency error.
func wrapStore(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(msg)
	}
	return apperror.Consistency(msg, err)
}
