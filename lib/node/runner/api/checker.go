/*
	The OperationChecker is shared by the checker functions handling a
	posted operation. They are run in order by `common.RunChecker`:
	1. OperationUnmarshal: decode the envelope and its body
	2. OperationWellFormed: check the shape of the operation
	3. OperationVerifySignature: check the caller signed it for this network
	4. OperationCheckAdmin: admin operations need the configured admin
	5. OperationExecute: apply it on the roster engine
*/

package api

import (
	"encoding/json"

	logging "github.com/inconshreveable/log15"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/operation"
	"boscoin.io/roster/lib/roster"
)

type OperationChecker struct {
	common.DefaultChecker

	Conf      common.Config
	Engine    *roster.Engine
	Body      []byte
	Log       logging.Logger
	Operation operation.Operation
	RosterID  string
	Result    interface{}
}

var OperationCheckerFuncs = []common.CheckerFunc{
	OperationUnmarshal,
	OperationWellFormed,
	OperationVerifySignature,
	OperationCheckAdmin,
	OperationExecute,
}

func OperationUnmarshal(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	var op operation.Operation
	if err = json.Unmarshal(checker.Body, &op); err != nil {
		if _, ok := err.(*errors.Error); ok {
			return
		}
		return errors.BadRequestParameter.Clone().SetData("error", err.Error())
	}

	checker.Operation = op
	checker.Log = checker.Log.New(logging.Ctx{"operation": op.MakeHashString(), "type": op.H.Type})
	checker.Log.Debug("operation received", "caller", op.H.Caller)

	return
}

func OperationWellFormed(c common.Checker, args ...interface{}) error {
	checker := c.(*OperationChecker)

	return checker.Operation.IsWellFormed(checker.Conf)
}

func OperationVerifySignature(c common.Checker, args ...interface{}) error {
	checker := c.(*OperationChecker)

	return checker.Operation.VerifySignature(checker.Conf.NetworkID)
}

func OperationCheckAdmin(c common.Checker, args ...interface{}) error {
	checker := c.(*OperationChecker)

	if !operation.IsAdminOperation(checker.Operation.H.Type) {
		return nil
	}
	if checker.Conf.Admin == "" || checker.Operation.H.Caller != checker.Conf.Admin {
		return errors.PermissionDenied.Clone().SetData("operation", checker.Operation.H.Type)
	}

	return nil
}

// OperationExecute applies the operation. `RosterID` is set to the roster
// the operation changed and `Result` to the outcome of closing operations.
func OperationExecute(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)
	e := checker.Engine
	caller := checker.Operation.H.Caller

	if b, ok := checker.Operation.B.(operation.CreateRoster); ok {
		var id roster.RosterID
		if id, err = e.Create(caller, b.Title); err != nil {
			return
		}
		checker.RosterID = id.String()
		return
	}

	rb, ok := checker.Operation.B.(operation.RosterBody)
	if !ok {
		return errors.InvalidOperation.Clone().SetData("type", checker.Operation.H.Type)
	}

	var id roster.RosterID
	if id, err = roster.ParseRosterID(rb.Roster()); err != nil {
		return
	}
	checker.RosterID = id.String()

	switch b := rb.(type) {
	case operation.SetRosterStatus:
		err = e.SetStatus(caller, id, b.Status)
	case operation.RemoveRoster:
		err = e.Remove(caller, id)
	case operation.LeaveRoster:
		err = e.Leave(caller, id)
	case operation.ForceAddMembers:
		err = e.ForceAddMembers(id, b.Members...)
	case operation.RemoveMember:
		err = e.RemoveMember(id, b.Member)
	case operation.Nominate:
		err = e.Nominate(caller, id, b.Nominee)
	case operation.VoteNomination:
		err = e.VoteNomination(caller, id, b.Nominee, b.Vote)
	case operation.RecantNomination:
		err = e.RecantNomination(caller, id, b.Nominee)
	case operation.CloseNomination:
		var status roster.NominationStatus
		if status, err = e.CloseNomination(caller, id, b.Nominee); err == nil {
			checker.Result = status
		}
	case operation.AddMember:
		err = e.AddMember(caller, id)
	case operation.ProposeExpulsion:
		err = e.Propose(caller, b.Subject, id, b.Reason)
	case operation.SecondExpulsion:
		err = e.Second(caller, b.Motioner, b.Subject, id)
	case operation.OpenExpulsionVoting:
		err = e.OpenVoting(caller, b.Subject, id)
	case operation.VoteExpulsion:
		err = e.VoteProposal(caller, b.Motioner, b.Subject, id, b.Vote)
	case operation.RecantExpulsion:
		err = e.RecantProposal(caller, b.Motioner, b.Subject, id)
	case operation.CloseExpulsion:
		var status roster.ProposalStatus
		if status, err = e.CloseProposal(caller, b.Motioner, b.Subject, id); err == nil {
			checker.Result = status
		}
	default:
		err = errors.InvalidOperation.Clone().SetData("type", checker.Operation.H.Type)
	}

	return
}
