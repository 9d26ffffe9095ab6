package types

import (
	"cosmossdk.io/math"
)

// BpsDenominator converts basis points to a ratio.
const BpsDenominator = 10_000

// BpsToDec converts basis points to a LegacyDec ratio.
func BpsToDec(bps int64) math.LegacyDec {
	return math.LegacyNewDec(bps).QuoInt64(BpsDenominator)
}

// ApplyBps returns amount * bps / 10000, truncated toward zero so fee
// rounding always favours the payer of record.
func ApplyBps(amount math.LegacyDec, bps int64) math.LegacyDec {
	if bps <= 0 || !amount.IsPositive() {
		return math.LegacyZeroDec()
	}
	return amount.MulTruncate(BpsToDec(bps))
}

// GrossUpBps returns the gross amount whose net after a bps fee equals the
// given net amount: gross = net / (1 - bps/10000).
func GrossUpBps(net math.LegacyDec, bps int64) math.LegacyDec {
	if bps <= 0 {
		return net
	}
	factor := math.LegacyOneDec().Sub(BpsToDec(bps))
	if !factor.IsPositive() {
		return net
	}
	return net.Quo(factor)
}

// MinDec returns the smaller of two decimals.
func MinDec(a, b math.LegacyDec) math.LegacyDec {
	if a.LT(b) {
		return a
	}
	return b
}

// MaxDec returns the larger of two decimals.
func MaxDec(a, b math.LegacyDec) math.LegacyDec {
	if a.GT(b) {
		return a
	}
	return b
}

// ClampNonNegative floors a decimal at zero.
func ClampNonNegative(v math.LegacyDec) math.LegacyDec {
	if v.IsNegative() {
		return math.LegacyZeroDec()
	}
	return v
}
