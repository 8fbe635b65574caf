package ledger

import (
	"strings"
	"testing"

	"github.com/KauaAraujodS/organiza-app/internal/apperror"
)

func TestNormalizeSplits_Empty(t *testing.T) {
	out, err := NormalizeSplits(nil, -1000)
	if err != nil {
		t.Fatalf("error = %v, want nil", err)
	}
	if out != nil {
		t.Errorf("out = %v, want nil", out)
	}
}

func TestNormalizeSplits_ResignsToTotal(t *testing.T) {
	splits := []SplitInput{
		{CategoryID: 1, AmountCents: 600},
		{CategoryID: 2, AmountCents: 400},
	}
	out, err := NormalizeSplits(splits, -1000)
	if err != nil {
		t.Fatalf("error = %v, want nil", err)
	}
	if out[0].AmountCents != -600 || out[1].AmountCents != -400 {
		t.Errorf("amounts = %d, %d, want -600, -400", out[0].AmountCents, out[1].AmountCents)
	}
}

func TestNormalizeSplits_SumMismatch(t *testing.T) {
	splits := []SplitInput{
		{CategoryID: 1, AmountCents: 600},
		{CategoryID: 2, AmountCents: 300},
	}
	_, err := NormalizeSplits(splits, -1000)
	if err == nil {
		t.Fatal("error = nil, want mismatch error")
	}
	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind != apperror.KindValidation {
		t.Fatalf("error kind = %v, want validation", err)
	}
	// diagnostic names both sums
	if !strings.Contains(appErr.Message, "-9.00") || !strings.Contains(appErr.Message, "-10.00") {
		t.Errorf("message %q should name both sums", appErr.Message)
	}
}

func TestNormalizeSplits_ZeroAmount(t *testing.T) {
	_, err := NormalizeSplits([]SplitInput{{CategoryID: 1, AmountCents: 0}}, 100)
	if err == nil {
		t.Fatal("error = nil, want validation error")
	}
}

func TestNormalizeSplits_MissingCategory(t *testing.T) {
	_, err := NormalizeSplits([]SplitInput{{CategoryID: 0, AmountCents: 100}}, 100)
	if err == nil {
		t.Fatal("error = nil, want validation error")
	}
}

func TestNormalizeSplits_SingleSplitEqualTotal(t *testing.T) {
	out, err := NormalizeSplits([]SplitInput{{CategoryID: 7, AmountCents: 1000}}, 1000)
	if err != nil {
		t.Fatalf("error = %v, want nil", err)
	}
	if len(out) != 1 || out[0].AmountCents != 1000 {
		t.Errorf("out = %+v", out)
	}
}
