package ledger

// AllocateInstallments divides a signed total into count amounts that
// sum back to the total exactly. The magnitude is floor-divided; the
// first (total mod count) installments absorb one extra cent, so no two
// installments differ by more than one cent.
func AllocateInstallments(signedTotal int64, count int) []int64 {
	if count < 1 {
		count = 1
	}

	abs := signedTotal
	sign := int64(1)
	if abs < 0 {
		abs = -abs
		sign = -1
	}

	base := abs / int64(count)
	remainder := abs - base*int64(count)

	out := make([]int64, count)
	for i := range out {
		v := base
		if int64(i) < remainder {
			v++
		}
		out[i] = v * sign
	}
	return out
}
