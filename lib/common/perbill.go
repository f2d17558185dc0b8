package common

import (
	"math/bits"
	"strconv"
)

// Perbill is a fraction in parts per billion, always in [0, 1].
type Perbill uint32

const (
	PerbillZero Perbill = 0
	PerbillOne  Perbill = 1000000000
)

func PerbillFromPercent(p uint8) Perbill {
	if p >= 100 {
		return PerbillOne
	}

	return Perbill(uint32(p) * 10000000)
}

// PerbillFromRational returns n/d rounded down. It saturates at one, and a
// zero denominator counts as fully elapsed.
func PerbillFromRational(n, d uint64) Perbill {
	if d == 0 || n >= d {
		return PerbillOne
	}

	hi, lo := bits.Mul64(n, uint64(PerbillOne))
	q, _ := bits.Div64(hi, lo, d)

	return Perbill(q)
}

func (p Perbill) Complement() Perbill {
	if p >= PerbillOne {
		return PerbillZero
	}

	return PerbillOne - p
}

func (p Perbill) mul(n uint64) (q, r uint64) {
	if p > PerbillOne {
		p = PerbillOne
	}

	hi, lo := bits.Mul64(n, uint64(p))
	return bits.Div64(hi, lo, uint64(PerbillOne))
}

// MulFloor returns p*n rounded down.
func (p Perbill) MulFloor(n uint64) uint64 {
	q, _ := p.mul(n)
	return q
}

// MulCeil returns p*n rounded up.
func (p Perbill) MulCeil(n uint64) uint64 {
	q, r := p.mul(n)
	if r > 0 {
		q++
	}

	return q
}

// MulPerbillCeil multiplies two fractions, rounding up.
func (p Perbill) MulPerbillCeil(o Perbill) Perbill {
	return Perbill(p.MulCeil(uint64(o)))
}

func (p Perbill) String() string {
	whole := uint64(p) / 10000000
	frac := uint64(p) % 10000000
	if frac == 0 {
		return strconv.FormatUint(whole, 10) + "%"
	}

	s := strconv.FormatUint(frac+10000000, 10)[1:]
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}

	return strconv.FormatUint(whole, 10) + "." + s + "%"
}
