package common

import (
	"fmt"
	"strconv"

	"boscoin.io/roster/lib/errors"
)

const (
	// 10,000,000 units == 1 coin
	AmountPerCoin Amount = 10000000
	// MaximumBalance bounds every balance and reservation.
	MaximumBalance Amount = 1000000000000 * AmountPerCoin

	invalidValue = Amount(MaximumBalance + 1)
)

// Amount counts deposits, dues and reservations in units. It is encoded as
// a json string.
type Amount uint64

// Invariant panics if `a` is above `MaximumBalance`.
func (a Amount) Invariant() {
	if a > MaximumBalance {
		// `uint64` avoids a recursive call to `String`
		panic(fmt.Errorf("amount '%d' is higher than the total supply of coins (%d)", uint64(a), uint64(MaximumBalance)))
	}
}

func (a Amount) String() string {
	a.Invariant()
	return strconv.FormatUint(uint64(a), 10)
}

// Add fails with `MaximumBalanceReached` above `MaximumBalance`.
func (a Amount) Add(added Amount) (n Amount, err error) {
	a.Invariant()
	added.Invariant()
	if n = a + added; n > MaximumBalance {
		return invalidValue, errors.MaximumBalanceReached
	}
	return
}

// Sub fails with `BalanceUnderZero` when `sub` is greater than `a`.
func (a Amount) Sub(sub Amount) (Amount, error) {
	a.Invariant()
	sub.Invariant()
	if a < sub {
		return invalidValue, errors.BalanceUnderZero
	}
	return a - sub, nil
}

func (a Amount) MustAdd(added Amount) Amount {
	v, err := a.Add(added)
	if err != nil {
		panic(err)
	}
	return v
}

func (a Amount) MustSub(sub Amount) Amount {
	v, err := a.Sub(sub)
	if err != nil {
		panic(err)
	}
	return v
}

// MulPerbill returns the share `p` of `a`, rounded down; `a` minus the
// share is the rest, so a split deposit keeps every unit.
func (a Amount) MulPerbill(p Perbill) Amount {
	a.Invariant()
	return Amount(p.MulFloor(uint64(a)))
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// UnmarshalJSON takes a quoted or a bare number.
func (a *Amount) UnmarshalJSON(b []byte) (err error) {
	s := string(b)
	if unquoted, e := strconv.Unquote(s); e == nil {
		s = unquoted
	}

	*a, err = AmountFromString(s)
	return
}

// AmountFromString parses a decimal number of units.
func AmountFromString(str string) (Amount, error) {
	value, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return invalidValue, errors.InvalidAmount.Clone().SetData("amount", str)
	}
	if Amount(value) > MaximumBalance {
		return invalidValue, errors.MaximumBalanceReached.Clone().SetData("amount", str)
	}

	return Amount(value), nil
}
