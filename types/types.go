// Package types holds native element types that Go lacks: a 128 bit
// integer for decimals and the two multi-field interval layouts.
//
// Half precision floats use github.com/x448/float16.
package types

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Int128 is a two's complement 128 bit integer. The memory layout (low
// word first) matches the Arrow decimal128 layout on little endian hosts.
type Int128 struct {
	Lo uint64
	Hi int64
}

// Int128FromInt64 sign-extends v.
func Int128FromInt64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Lo: uint64(v), Hi: hi}
}

var (
	two64      = new(big.Int).Lsh(big.NewInt(1), 64)
	twoTo128   = new(big.Int).Lsh(big.NewInt(1), 128)
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	maskUint64 = new(big.Int).SetUint64(^uint64(0))
)

// Int128FromBig converts b, reporting false if it does not fit.
func Int128FromBig(b *big.Int) (Int128, bool) {
	if b.Cmp(minInt128) < 0 || b.Cmp(maxInt128) > 0 {
		return Int128{}, false
	}
	v := new(big.Int).Set(b)
	if v.Sign() < 0 {
		v.Add(v, twoTo128)
	}
	lo := new(big.Int).And(v, maskUint64).Uint64()
	hi := new(big.Int).Rsh(v, 64).Uint64()
	return Int128{Lo: lo, Hi: int64(hi)}, true
}

// Big returns the value as a big.Int.
func (v Int128) Big() *big.Int {
	b := big.NewInt(v.Hi)
	b.Mul(b, two64)
	return b.Add(b, new(big.Int).SetUint64(v.Lo))
}

// Sign returns -1, 0 or 1.
func (v Int128) Sign() int {
	switch {
	case v.Hi < 0:
		return -1
	case v.Hi == 0 && v.Lo == 0:
		return 0
	default:
		return 1
	}
}

func (v Int128) String() string { return v.Big().String() }

// Decimal returns the logical value v * 10^-scale.
func (v Int128) Decimal(scale int8) decimal.Decimal {
	return decimal.NewFromBigInt(v.Big(), -int32(scale))
}

// Int128FromDecimal rescales d to scale and returns the unscaled integer.
// Digits beyond scale are rounded half away from zero.
func Int128FromDecimal(d decimal.Decimal, scale int8) (Int128, bool) {
	unscaled := d.Round(int32(scale)).Shift(int32(scale))
	return Int128FromBig(unscaled.BigInt())
}

// DayTimeInterval is a number of days and milliseconds.
type DayTimeInterval struct {
	Days         int32
	Milliseconds int32
}

// MonthDayNanoInterval is a number of months, days and nanoseconds.
type MonthDayNanoInterval struct {
	Months      int32
	Days        int32
	Nanoseconds int64
}
