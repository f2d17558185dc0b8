package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/keypair"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/ledger"
	"boscoin.io/roster/lib/node/runner/api/resource"
)

func (api NetworkHandlerAPI) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["id"]

	respond(w, func() (payload interface{}, err error) {
		if !keypair.IsAddress(address) && address != api.config.Treasury {
			return nil, errors.InvalidIdentity.Clone().SetData("identity", address)
		}

		l := ledger.New(api.storage)
		account := resource.Account{
			Address:      address,
			Reservations: map[string]common.Amount{},
		}

		if account.Balance, err = l.Balance(address); err != nil {
			return nil, err
		}

		err = api.storage.Walk(ledger.GetReservationKeyPrefix(address), func(key, value []byte) (bool, error) {
			var amount common.Amount
			if err := common.DecodeJSONValue(value, &amount); err != nil {
				return false, err
			}
			_, scope, ok := ledger.ParseReservationKey(string(key))
			if !ok {
				return true, nil
			}
			account.Reservations[scope] = amount

			var err error
			account.Reserved, err = account.Reserved.Add(amount)
			return err == nil, err
		})
		if err != nil {
			return nil, err
		}

		return account, nil
	})
}
