package ledger

import (
	"strings"

	"github.com/KauaAraujodS/organiza-app/internal/apperror"
	"github.com/KauaAraujodS/organiza-app/internal/util"
)

// NormalizeSplits re-signs each split magnitude to the sign of the
// transaction total and checks that the signed sum equals the total
// exactly (integer equality, no tolerance). Returns nil for an empty
// split list.
func NormalizeSplits(splits []SplitInput, signedTotal int64) ([]SplitInput, error) {
	if len(splits) == 0 {
		return nil, nil
	}

	sign := int64(1)
	if signedTotal < 0 {
		sign = -1
	}

	out := make([]SplitInput, 0, len(splits))
	var sum int64
	for _, s := range splits {
		if s.CategoryID == 0 {
			return nil, apperror.Validation("Cada split precisa de uma categoria.")
		}
		abs := s.AmountCents
		if abs < 0 {
			abs = -abs
		}
		if abs == 0 {
			return nil, apperror.Validation("Split com valor zero não é permitido.")
		}
		n := SplitInput{
			CategoryID:  s.CategoryID,
			AmountCents: abs * sign,
			Note:        strings.TrimSpace(s.Note),
		}
		sum += n.AmountCents
		out = append(out, n)
	}

	if sum != signedTotal {
		return nil, apperror.Validationf(
			"A soma dos splits (%s) difere do total da transação (%s).",
			util.FormatCents(sum), util.FormatCents(signedTotal))
	}
	return out, nil
}
