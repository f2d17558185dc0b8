package api

import (
	"io/ioutil"
	"net/http"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/network/httputils"
	"boscoin.io/roster/lib/node/runner/api/resource"
)

// MaxOperationBodySize bounds posted operations.
const MaxOperationBodySize int64 = 64 * 1024

func (api NetworkHandlerAPI) PostOperationsHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, MaxOperationBodySize))
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("error", err.Error()))
		return
	}

	checker := &OperationChecker{
		DefaultChecker: common.DefaultChecker{Funcs: OperationCheckerFuncs},
		Conf:           api.config,
		Engine:         api.engine,
		Body:           body,
		Log:            log,
	}

	deferFunc := func(i int, c common.Checker, err error) {
		common.LogCheckerDeferFunc(checker.Log)(i, c, err)
	}
	if err = common.RunChecker(checker, deferFunc); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	checker.Log.Debug("operation applied", "roster", checker.RosterID)
	httputils.MustWriteJSON(w, 200, resource.NewOperationResult(checker.Operation, checker.RosterID, checker.Result))
}
