package util

import (
	"strconv"
	"strings"

	"github.com/KauaAraujodS/organiza-app/internal/models"
)

// 金额统一用分（int64）存储和计算，只有展示时才转成字符串。

// MaxMoneyCents bounds any parsed amount: 999.999.999,99 in either
// direction. Beyond that float64 loses cent precision anyway.
const MaxMoneyCents = 99_999_999_999

// ParseMoneyToCents converts a decimal money string ("123.45" or
// "123,45") to cents. Returns false when the input is not a number or
// its magnitude exceeds MaxMoneyCents.
func ParseMoneyToCents(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// accept pt-BR comma decimals
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	// bound before the int64 conversion: out-of-range float to int
	// conversions are not portable
	if f > float64(MaxMoneyCents)/100 || f < -float64(MaxMoneyCents)/100 {
		return 0, false
	}
	if f >= 0 {
		return int64(f*100 + 0.5), true
	}
	return int64(f*100 - 0.5), true
}

// FormatCents renders cents as a plain decimal string with two places,
// e.g. -1234 -> "-12.34".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// SignedAmount normalizes a positive magnitude to the sign convention:
// income positive, expense negative. Transfer legs are signed by the
// writer itself.
func SignedAmount(txType string, magnitudeCents int64) int64 {
	abs := magnitudeCents
	if abs < 0 {
		abs = -abs
	}
	if txType == models.TypeIncome {
		return abs
	}
	return -abs
}
