package ledger

import (
	"fmt"
	"strings"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/storage"
)

// Ledger holds free balances and named reservations.
type Ledger interface {
	// Reserve moves `amount` from the free balance of `account` into the
	// reservation `scope`. Fails with `InsufficientFunds`.
	Reserve(scope ScopeName, account string, amount common.Amount) error

	// Unreserve moves up to `amount` back to the free balance and returns
	// the part that could not be unreserved. It never fails because the
	// reservation is short; only storage failures are returned.
	Unreserve(scope ScopeName, account string, amount common.Amount) (common.Amount, error)

	// TransferReserved moves `amount` out of the reservation of `from`. With
	// `keepReserved` it lands in the same scope for `to`, otherwise in the
	// free balance of `to`.
	TransferReserved(scope ScopeName, from, to string, amount common.Amount, keepReserved bool) error

	Balance(account string) (common.Amount, error)
	Reserved(scope ScopeName, account string) (common.Amount, error)
}

// Storage models
//  * 'la-<address>': free balance, `Account`
//  * 'lr-<address>-<scope>': reserved `common.Amount`
const (
	AccountPrefix     = "la-"
	ReservationPrefix = "lr-"
)

type Account struct {
	Address string        `json:"address"`
	Balance common.Amount `json:"balance"`
}

func GetAccountKey(address string) string {
	return fmt.Sprintf("%s%s", AccountPrefix, address)
}

func GetReservationKey(scope ScopeName, address string) string {
	return fmt.Sprintf("%s%s-%s", ReservationPrefix, address, scope)
}

func GetReservationKeyPrefix(address string) string {
	return fmt.Sprintf("%s%s-", ReservationPrefix, address)
}

type LevelDBLedger struct {
	st *storage.LevelDBBackend
}

// New returns a ledger over `st`. Pass the transaction backend of the
// operation, so ledger writes commit or discard together with it.
func New(st *storage.LevelDBBackend) *LevelDBLedger {
	return &LevelDBLedger{st: st}
}

func (l *LevelDBLedger) getAccount(address string) (ac Account, err error) {
	if err = l.st.Get(GetAccountKey(address), &ac); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return Account{Address: address}, nil
		}
		return
	}

	return
}

func (l *LevelDBLedger) Balance(address string) (common.Amount, error) {
	ac, err := l.getAccount(address)
	return ac.Balance, err
}

func (l *LevelDBLedger) Reserved(scope ScopeName, address string) (amount common.Amount, err error) {
	if err = l.st.Get(GetReservationKey(scope, address), &amount); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return 0, nil
		}
	}

	return
}

// TotalReserved sums every reservation held by `address`.
func (l *LevelDBLedger) TotalReserved(address string) (total common.Amount, err error) {
	err = l.st.Walk(GetReservationKeyPrefix(address), func(key, value []byte) (bool, error) {
		var amount common.Amount
		if err := common.DecodeJSONValue(value, &amount); err != nil {
			return false, err
		}

		var err error
		if total, err = total.Add(amount); err != nil {
			return false, err
		}

		return true, nil
	})

	return
}

// Deposit credits free balance. It is used by the host, for genesis and
// tests; engines only move reserved funds.
func (l *LevelDBLedger) Deposit(address string, amount common.Amount) error {
	ac, err := l.getAccount(address)
	if err != nil {
		return err
	}

	if ac.Balance, err = ac.Balance.Add(amount); err != nil {
		return err
	}

	return l.st.Put(GetAccountKey(address), ac)
}

func (l *LevelDBLedger) setReserved(scope ScopeName, address string, amount common.Amount) error {
	key := GetReservationKey(scope, address)
	if amount == 0 {
		if exists, err := l.st.Has(key); err != nil || !exists {
			return err
		}
		return l.st.Remove(key)
	}

	return l.st.Put(key, amount)
}

func (l *LevelDBLedger) Reserve(scope ScopeName, address string, amount common.Amount) error {
	ac, err := l.getAccount(address)
	if err != nil {
		return err
	}

	if ac.Balance < amount {
		return errors.InsufficientFunds.Clone().
			SetData("account", address).
			SetData("balance", ac.Balance).
			SetData("amount", amount)
	}

	reserved, err := l.Reserved(scope, address)
	if err != nil {
		return err
	}
	if reserved, err = reserved.Add(amount); err != nil {
		return err
	}

	ac.Balance = ac.Balance.MustSub(amount)
	if err = l.st.Put(GetAccountKey(address), ac); err != nil {
		return err
	}
	if err = l.setReserved(scope, address, reserved); err != nil {
		return err
	}

	log.Debug("reserved", "scope", scope, "account", address, "amount", amount)

	return nil
}

func (l *LevelDBLedger) Unreserve(scope ScopeName, address string, amount common.Amount) (common.Amount, error) {
	reserved, err := l.Reserved(scope, address)
	if err != nil {
		return amount, err
	}

	actual := amount
	if reserved < actual {
		actual = reserved
	}

	if actual > 0 {
		ac, err := l.getAccount(address)
		if err != nil {
			return amount, err
		}
		if ac.Balance, err = ac.Balance.Add(actual); err != nil {
			return amount, err
		}
		if err = l.st.Put(GetAccountKey(address), ac); err != nil {
			return amount, err
		}
		if err = l.setReserved(scope, address, reserved.MustSub(actual)); err != nil {
			return amount, err
		}
	}

	remaining := amount.MustSub(actual)
	if remaining > 0 {
		log.Warn("reservation was short", "scope", scope, "account", address, "amount", amount, "remaining", remaining)
	} else {
		log.Debug("unreserved", "scope", scope, "account", address, "amount", amount)
	}

	return remaining, nil
}

func (l *LevelDBLedger) TransferReserved(scope ScopeName, from, to string, amount common.Amount, keepReserved bool) error {
	if amount == 0 {
		return nil
	}

	reserved, err := l.Reserved(scope, from)
	if err != nil {
		return err
	}
	if reserved < amount {
		return errors.InsufficientReserved.Clone().
			SetData("account", from).
			SetData("reserved", reserved).
			SetData("amount", amount)
	}

	if err = l.setReserved(scope, from, reserved.MustSub(amount)); err != nil {
		return err
	}

	if keepReserved {
		toReserved, err := l.Reserved(scope, to)
		if err != nil {
			return err
		}
		if toReserved, err = toReserved.Add(amount); err != nil {
			return err
		}
		if err = l.setReserved(scope, to, toReserved); err != nil {
			return err
		}
	} else {
		ac, err := l.getAccount(to)
		if err != nil {
			return err
		}
		if ac.Balance, err = ac.Balance.Add(amount); err != nil {
			return err
		}
		if err = l.st.Put(GetAccountKey(to), ac); err != nil {
			return err
		}
	}

	log.Debug(
		"transferred reserved",
		"scope", scope,
		"from", from,
		"to", to,
		"amount", amount,
		"keep-reserved", keepReserved,
	)

	return nil
}

// ParseReservationKey splits a reservation key into address and scope.
func ParseReservationKey(key string) (address, scope string, ok bool) {
	if !strings.HasPrefix(key, ReservationPrefix) {
		return
	}

	rest := key[len(ReservationPrefix):]
	i := strings.LastIndex(rest, "-")
	if i < 0 {
		return
	}

	return rest[:i], rest[i+1:], true
}
