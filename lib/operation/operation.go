package operation

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/btcsuite/btcutil/base58"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/keypair"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/roster"
)

type OperationType string

const (
	TypeCreateRoster        OperationType = "create-roster"
	TypeSetRosterStatus     OperationType = "set-roster-status"
	TypeRemoveRoster        OperationType = "remove-roster"
	TypeLeaveRoster         OperationType = "leave-roster"
	TypeForceAddMembers     OperationType = "force-add-members"
	TypeRemoveMember        OperationType = "remove-member"
	TypeNominate            OperationType = "nominate"
	TypeVoteNomination      OperationType = "vote-nomination"
	TypeRecantNomination    OperationType = "recant-nomination"
	TypeCloseNomination     OperationType = "close-nomination"
	TypeAddMember           OperationType = "add-member"
	TypeProposeExpulsion    OperationType = "propose-expulsion"
	TypeSecondExpulsion     OperationType = "second-expulsion"
	TypeOpenExpulsionVoting OperationType = "open-expulsion-voting"
	TypeVoteExpulsion       OperationType = "vote-expulsion"
	TypeRecantExpulsion     OperationType = "recant-expulsion"
	TypeCloseExpulsion      OperationType = "close-expulsion"
)

var operationTypes = []string{
	string(TypeCreateRoster),
	string(TypeSetRosterStatus),
	string(TypeRemoveRoster),
	string(TypeLeaveRoster),
	string(TypeForceAddMembers),
	string(TypeRemoveMember),
	string(TypeNominate),
	string(TypeVoteNomination),
	string(TypeRecantNomination),
	string(TypeCloseNomination),
	string(TypeAddMember),
	string(TypeProposeExpulsion),
	string(TypeSecondExpulsion),
	string(TypeOpenExpulsionVoting),
	string(TypeVoteExpulsion),
	string(TypeRecantExpulsion),
	string(TypeCloseExpulsion),
}

func IsValidOperationType(oType string) bool {
	_, b := common.InStringArray(operationTypes, oType)
	return b
}

// IsAdminOperation is true for operations only the configured admin may
// send.
func IsAdminOperation(t OperationType) bool {
	switch t {
	case TypeForceAddMembers, TypeRemoveMember:
		return true
	default:
		return false
	}
}

// Operation is a signed request to change roster state. `H.Caller` is the
// identity the engine authorizes; `H.Signature` proves the caller made it.
type Operation struct {
	H Header
	B Body
}

type Header struct {
	Type      OperationType `json:"type"`
	Caller    string        `json:"caller"`
	Signature string        `json:"signature"`
}

type Body interface {
	//
	// Check that this operation is self consistent
	//
	// Only the shape of the body is checked here; anything depending on
	// stored state is left to the roster engine.
	//
	IsWellFormed(common.Config) error
}

// RosterBody is implemented by every body which targets an existing roster.
type RosterBody interface {
	Body
	Roster() string
}

func NewOperation(caller string, opb Body) (op Operation, err error) {
	var t OperationType
	switch opb.(type) {
	case CreateRoster:
		t = TypeCreateRoster
	case SetRosterStatus:
		t = TypeSetRosterStatus
	case RemoveRoster:
		t = TypeRemoveRoster
	case LeaveRoster:
		t = TypeLeaveRoster
	case ForceAddMembers:
		t = TypeForceAddMembers
	case RemoveMember:
		t = TypeRemoveMember
	case Nominate:
		t = TypeNominate
	case VoteNomination:
		t = TypeVoteNomination
	case RecantNomination:
		t = TypeRecantNomination
	case CloseNomination:
		t = TypeCloseNomination
	case AddMember:
		t = TypeAddMember
	case ProposeExpulsion:
		t = TypeProposeExpulsion
	case SecondExpulsion:
		t = TypeSecondExpulsion
	case OpenExpulsionVoting:
		t = TypeOpenExpulsionVoting
	case VoteExpulsion:
		t = TypeVoteExpulsion
	case RecantExpulsion:
		t = TypeRecantExpulsion
	case CloseExpulsion:
		t = TypeCloseExpulsion
	default:
		err = errors.InvalidOperation.Clone().SetData("body", fmt.Sprintf("%T", opb))
		return
	}

	op = Operation{
		H: Header{Type: t, Caller: caller},
		B: opb,
	}

	return
}

func (o Operation) IsWellFormed(conf common.Config) (err error) {
	if !IsValidOperationType(string(o.H.Type)) {
		return errors.InvalidOperation.Clone().SetData("type", o.H.Type)
	}
	if !keypair.IsAddress(o.H.Caller) {
		return errors.InvalidIdentity.Clone().SetData("identity", o.H.Caller)
	}
	if o.B == nil {
		return errors.InvalidOperation
	}

	return o.B.IsWellFormed(conf)
}

func (o Operation) String() string {
	encoded, _ := json.MarshalIndent(o, "", "  ")

	return string(encoded)
}

// MakeHash is the keccak256 hash of the rlp encoded type, caller and body.
func (o Operation) MakeHash() []byte {
	return common.MustMakeObjectHash([]interface{}{string(o.H.Type), o.H.Caller, o.B})
}

func (o Operation) MakeHashString() string {
	return base58.Encode(o.MakeHash())
}

// Sign sets `H.Caller` to the address of `kp` and signs the operation for
// `networkID`.
func (o *Operation) Sign(kp keypair.KP, networkID []byte) error {
	o.H.Caller = kp.Address()

	signature, err := keypair.MakeSignature(kp, networkID, o.MakeHash())
	if err != nil {
		return err
	}
	o.H.Signature = base58.Encode(signature)

	return nil
}

func (o Operation) VerifySignature(networkID []byte) error {
	signature := base58.Decode(o.H.Signature)
	if len(signature) == 0 {
		return errors.InvalidSignature
	}

	if err := keypair.VerifySignature(o.H.Caller, networkID, o.MakeHash(), signature); err != nil {
		return errors.InvalidSignature.Clone().SetData("error", err.Error())
	}

	return nil
}

type envelop struct {
	H Header
	B interface{}
}

func (o *Operation) UnmarshalJSON(b []byte) (err error) {
	var raw json.RawMessage
	oj := envelop{
		B: &raw,
	}
	if err = json.Unmarshal(b, &oj); err != nil {
		return
	}

	o.H = oj.H

	var body Body
	if body, err = UnmarshalBodyJSON(oj.H.Type, raw); err != nil {
		return
	}
	o.B = body
	return nil
}

func UnmarshalBodyJSON(t OperationType, b []byte) (Body, error) {
	if bi, err := newBodyFromType(t); err != nil {
		return nil, err
	} else if err = json.Unmarshal(b, bi); err != nil {
		return nil, err
	} else {
		// values within interfaces are not addressable
		return reflect.ValueOf(bi).Elem().Interface().(Body), nil
	}
}

// Returns: A pointer to a body with a type matching `ty`
func newBodyFromType(ty OperationType) (interface{}, error) {
	switch ty {
	case TypeCreateRoster:
		return &CreateRoster{}, nil
	case TypeSetRosterStatus:
		return &SetRosterStatus{}, nil
	case TypeRemoveRoster:
		return &RemoveRoster{}, nil
	case TypeLeaveRoster:
		return &LeaveRoster{}, nil
	case TypeForceAddMembers:
		return &ForceAddMembers{}, nil
	case TypeRemoveMember:
		return &RemoveMember{}, nil
	case TypeNominate:
		return &Nominate{}, nil
	case TypeVoteNomination:
		return &VoteNomination{}, nil
	case TypeRecantNomination:
		return &RecantNomination{}, nil
	case TypeCloseNomination:
		return &CloseNomination{}, nil
	case TypeAddMember:
		return &AddMember{}, nil
	case TypeProposeExpulsion:
		return &ProposeExpulsion{}, nil
	case TypeSecondExpulsion:
		return &SecondExpulsion{}, nil
	case TypeOpenExpulsionVoting:
		return &OpenExpulsionVoting{}, nil
	case TypeVoteExpulsion:
		return &VoteExpulsion{}, nil
	case TypeRecantExpulsion:
		return &RecantExpulsion{}, nil
	case TypeCloseExpulsion:
		return &CloseExpulsion{}, nil
	default:
		return nil, errors.InvalidOperation.Clone().SetData("type", ty)
	}
}

func checkRosterID(id string) error {
	_, err := roster.ParseRosterID(id)
	return err
}

func checkIdentity(identities ...string) error {
	for _, identity := range identities {
		if !keypair.IsAddress(identity) {
			return errors.InvalidIdentity.Clone().SetData("identity", identity)
		}
	}

	return nil
}

func checkVote(v roster.VoteValue) error {
	if !v.IsValid() {
		return errors.InvalidVote.Clone().SetData("vote", v)
	}

	return nil
}
