package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/roster/lib/node/runner/api/resource"
	"boscoin.io/roster/lib/roster"
)

func (api NetworkHandlerAPI) GetRostersHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, func() (interface{}, error) {
		p, err := NewPageQuery(r)
		if err != nil {
			return nil, err
		}

		rosters, err := api.engine.ListRosters(p.ListOptions)
		if err != nil {
			return nil, err
		}

		var first, last []byte
		rs := make([]resource.Resource, 0, len(rosters))
		for _, ro := range rosters {
			last = []byte(roster.GetRosterKey(ro.ID))
			if first == nil {
				first = last
			}
			rs = append(rs, resource.NewRoster(ro))
		}

		return p.Page(rs, first, last), nil
	})
}

func (api NetworkHandlerAPI) GetRosterHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, func() (interface{}, error) {
		id, err := roster.ParseRosterID(mux.Vars(r)["id"])
		if err != nil {
			return nil, err
		}

		ro, err := api.engine.GetRoster(id)
		if err != nil {
			return nil, err
		}

		return resource.NewRoster(ro), nil
	})
}

// GetRosterExpulsionsHandler lists every stored proposal of the roster,
// open or decided.
func (api NetworkHandlerAPI) GetRosterExpulsionsHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, func() (interface{}, error) {
		id, err := roster.ParseRosterID(mux.Vars(r)["id"])
		if err != nil {
			return nil, err
		}
		if _, err = api.engine.GetRoster(id); err != nil {
			return nil, err
		}

		proposals, err := api.engine.ListProposals(id)
		if err != nil {
			return nil, err
		}

		rs := make([]resource.Resource, 0, len(proposals))
		for _, p := range proposals {
			rs = append(rs, resource.NewExpulsion(p))
		}

		return resource.NewPage(rs, r.URL.String(), "", ""), nil
	})
}

func (api NetworkHandlerAPI) GetNominationHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	respond(w, func() (interface{}, error) {
		id, err := roster.ParseRosterID(vars["id"])
		if err != nil {
			return nil, err
		}

		n, err := api.engine.GetNomination(id, vars["nominee"])
		if err != nil {
			return nil, err
		}

		return resource.NewNomination(n), nil
	})
}

func (api NetworkHandlerAPI) GetExpulsionHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	respond(w, func() (interface{}, error) {
		id, err := roster.ParseRosterID(vars["id"])
		if err != nil {
			return nil, err
		}

		p, err := api.engine.GetProposal(id, vars["motioner"], vars["subject"])
		if err != nil {
			return nil, err
		}

		return resource.NewExpulsion(p), nil
	})
}
