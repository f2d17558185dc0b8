package runner

import (
	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/keypair"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/ledger"
	"boscoin.io/roster/lib/storage"
)

// GenesisKey marks a storage which already received its genesis balances.
const GenesisKey = "gn-genesis"

type GenesisAccount struct {
	Address string        `json:"address"`
	Balance common.Amount `json:"balance"`
}

// InitGenesis deposits the initial balances once per storage. It returns
// false when the storage was already initialized; `accounts` is ignored then.
func InitGenesis(st *storage.LevelDBBackend, accounts []GenesisAccount) (created bool, err error) {
	var exists bool
	if exists, err = st.Has(GenesisKey); err != nil || exists {
		return
	}

	for _, a := range accounts {
		if !keypair.IsAddress(a.Address) {
			err = errors.InvalidIdentity.Clone().SetData("identity", a.Address)
			return
		}
	}

	err = st.Update(func(ts *storage.LevelDBBackend) error {
		l := ledger.New(ts)
		for _, a := range accounts {
			if err := l.Deposit(a.Address, a.Balance); err != nil {
				return err
			}
			log.Debug("genesis balance deposited", "address", a.Address, "balance", a.Balance)
		}

		return ts.New(GenesisKey, accounts)
	})
	if err != nil {
		return
	}

	created = true
	return
}
