package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/roster/lib/operation"
)

// OperationResult is returned for an applied operation. `Result` carries the
// outcome of operations which decide something, like the status of a
// closed nomination.
type OperationResult struct {
	op       operation.Operation
	rosterID string
	result   interface{}
}

func NewOperationResult(op operation.Operation, rosterID string, result interface{}) *OperationResult {
	return &OperationResult{
		op:       op,
		rosterID: rosterID,
		result:   result,
	}
}

func (o OperationResult) GetMap() hal.Entry {
	m := hal.Entry{
		"hash":      o.op.MakeHashString(),
		"type":      o.op.H.Type,
		"caller":    o.op.H.Caller,
		"roster_id": o.rosterID,
	}
	if o.result != nil {
		m["result"] = o.result
	}

	return m
}

func (o OperationResult) Resource() *hal.Resource {
	r := hal.NewResource(o, o.LinkSelf())
	if o.rosterID != "" {
		r.AddLink("roster", hal.NewLink(RosterURL(o.rosterID)))
	}
	return r
}

func (o OperationResult) LinkSelf() string {
	return URLOperations
}
