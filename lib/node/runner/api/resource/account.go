package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"boscoin.io/roster/lib/common"
)

// Account is the ledger view of an address: free balance plus every
// reservation by scope.
type Account struct {
	Address      string
	Balance      common.Amount
	Reserved     common.Amount
	Reservations map[string]common.Amount
}

func (a Account) GetMap() hal.Entry {
	reservations := map[string]common.Amount{}
	for scope, amount := range a.Reservations {
		reservations[scope] = amount
	}

	return hal.Entry{
		"address":      a.Address,
		"balance":      a.Balance,
		"reserved":     a.Reserved,
		"reservations": reservations,
	}
}

func (a Account) Resource() *hal.Resource {
	return hal.NewResource(a, a.LinkSelf())
}

func (a Account) LinkSelf() string {
	return strings.Replace(URLAccounts, "{id}", a.Address, -1)
}

func (a Account) MarshalJSON() ([]byte, error) {
	return common.JSONMarshalWithoutEscapeHTML(a.Resource().GetMap())
}
