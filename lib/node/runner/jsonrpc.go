package runner

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/rpc"
	jsonrpc "github.com/gorilla/rpc/json"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/ledger"
	"boscoin.io/roster/lib/roster"
	"boscoin.io/roster/lib/storage"
)

const JSONRPCPath = "/jsonrpc"

const MaxRecordsLimit uint64 = 1000

type RosterArgs struct {
	ID string
}

type NominationArgs struct {
	ID      string
	Nominee string
}

type HeightResult struct {
	Height common.Height
}

type AccountResult struct {
	Address  string
	Balance  common.Amount
	Reserved common.Amount
}

type RecordsArgs struct {
	Prefix  string
	Reverse bool
	Cursor  []byte
	Limit   uint64
}

type Record struct {
	Key   string
	Value json.RawMessage
}

type RecordsResult struct {
	Limit   uint64
	Records []Record
}

// rosterService reads rosters through the engine, so the answers are the
// same as the api's, without the cache in front.
type rosterService struct {
	engine *roster.Engine
}

func (s *rosterService) Get(r *http.Request, args *RosterArgs, result *roster.Roster) error {
	id, err := roster.ParseRosterID(args.ID)
	if err != nil {
		return err
	}

	found, err := s.engine.GetRoster(id)
	if err != nil {
		return err
	}
	*result = *found

	return nil
}

func (s *rosterService) Nomination(r *http.Request, args *NominationArgs, result *roster.Nomination) error {
	id, err := roster.ParseRosterID(args.ID)
	if err != nil {
		return err
	}

	found, err := s.engine.GetNomination(id, args.Nominee)
	if err != nil {
		return err
	}
	*result = *found

	return nil
}

func (s *rosterService) Proposals(r *http.Request, args *RosterArgs, result *[]*roster.ExpulsionProposal) error {
	id, err := roster.ParseRosterID(args.ID)
	if err != nil {
		return err
	}

	proposals, err := s.engine.ListProposals(id)
	if err != nil {
		return err
	}
	*result = proposals

	return nil
}

type nodeService struct {
	clock roster.Clock
	st    *storage.LevelDBBackend
}

func (s *nodeService) Height(r *http.Request, args *struct{}, result *HeightResult) error {
	result.Height = s.clock.Height()
	return nil
}

func (s *nodeService) Account(r *http.Request, args *string, result *AccountResult) (err error) {
	l := ledger.New(s.st)

	result.Address = *args
	if result.Balance, err = l.Balance(*args); err != nil {
		return
	}
	result.Reserved, err = l.TotalReserved(*args)

	return
}

// Records lists the raw stored records under `Prefix`, like "rt-" for
// rosters or "nm-" for nominations.
func (s *nodeService) Records(r *http.Request, args *RecordsArgs, result *RecordsResult) error {
	limit := args.Limit
	if limit < 1 || limit > MaxRecordsLimit {
		limit = MaxRecordsLimit
	}

	it, closeFunc := s.st.GetIterator(args.Prefix, storage.ListOptions{
		Reverse: args.Reverse,
		Cursor:  args.Cursor,
		Limit:   limit,
	})
	defer closeFunc()

	result.Limit = limit
	result.Records = []Record{}
	for {
		item, hasNext := it()
		if !hasNext {
			break
		}
		result.Records = append(result.Records, Record{Key: string(item.Key), Value: item.Value})
	}

	return nil
}

type jsonrpcHandler struct {
	*rpc.Server
}

func (s jsonrpcHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length")

	if r.Method == "OPTIONS" {
		return
	}

	s.Server.ServeHTTP(w, r)
}

// NewJSONRPCHandler serves the "Roster" and "Node" debug services.
func NewJSONRPCHandler(engine *roster.Engine, clock roster.Clock, st *storage.LevelDBBackend) http.Handler {
	s := rpc.NewServer()
	s.RegisterCodec(jsonrpc.NewCodec(), "application/json")
	s.RegisterCodec(jsonrpc.NewCodec(), "application/json;charset=UTF-8")

	s.RegisterService(&rosterService{engine: engine}, "Roster")
	s.RegisterService(&nodeService{clock: clock, st: st}, "Node")

	return jsonrpcHandler{Server: s}
}
