package util

import (
	"testing"

	"github.com/KauaAraujodS/organiza-app/internal/models"
)

func TestParseMoneyToCents_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0.01", 1},
		{"1", 100},
		{"123.45", 12345},
		{"123,45", 12345},
		{"1.234,56", 123456},
		{"-10.50", -1050},
		{" 99.90 ", 9990},
	}
	for _, tc := range cases {
		got, ok := ParseMoneyToCents(tc.in)
		if !ok {
			t.Errorf("ParseMoneyToCents(%q) ok = false, want true", tc.in)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMoneyToCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseMoneyToCents_Invalid(t *testing.T) {
	cases := []string{"", "abc", "12.3.4,5,6", "R$ 10"}
	for _, tc := range cases {
		if _, ok := ParseMoneyToCents(tc); ok {
			t.Errorf("ParseMoneyToCents(%q) ok = true, want false", tc)
		}
	}
}

func TestParseMoneyToCents_Bounds(t *testing.T) {
	got, ok := ParseMoneyToCents("999999999.99")
	if !ok || got != MaxMoneyCents {
		t.Errorf("max bound = %d/%v, want %d/true", got, ok, int64(MaxMoneyCents))
	}
	got, ok = ParseMoneyToCents("-999999999.99")
	if !ok || got != -MaxMoneyCents {
		t.Errorf("min bound = %d/%v, want %d/true", got, ok, int64(-MaxMoneyCents))
	}

	rejected := []string{
		"1000000000.00",
		"-1000000000.00",
		"90000000000000000",
		"9e30",
		"-9e30",
	}
	for _, tc := range rejected {
		if _, ok := ParseMoneyToCents(tc); ok {
			t.Errorf("ParseMoneyToCents(%q) ok = true, want false", tc)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{12345, "123.45"},
		{-1234, "-12.34"},
		{100, "1.00"},
	}
	for _, tc := range cases {
		if got := FormatCents(tc.in); got != tc.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSignedAmount(t *testing.T) {
	if got := SignedAmount(models.TypeIncome, 500); got != 500 {
		t.Errorf("income SignedAmount = %d, want 500", got)
	}
	if got := SignedAmount(models.TypeExpense, 500); got != -500 {
		t.Errorf("expense SignedAmount = %d, want -500", got)
	}
	// magnitude already negative still normalizes
	if got := SignedAmount(models.TypeIncome, -500); got != 500 {
		t.Errorf("income SignedAmount(-500) = %d, want 500", got)
	}
}
