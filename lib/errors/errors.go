package errors

type Kind string

const (
	KindValidation   Kind = "validation"
	KindPrecondition Kind = "precondition"
	KindResource     Kind = "resource"
	KindInvariant    Kind = "invariant"
	KindInternal     Kind = "internal"
)

// validation
var (
	InvalidTitle        = NewError(100, "title length is out of bounds")
	InvalidReason       = NewError(101, "reason length is out of bounds")
	InvalidIdentity     = NewError(102, "identity is not a valid address")
	InvalidVote         = NewError(103, "vote value is not allowed here")
	InvalidStatus       = NewError(104, "status is not allowed here")
	InvalidOperation    = NewError(105, "operation is not well-formed")
	InvalidSignature    = NewError(106, "signature verification failed")
	BadRequestParameter = NewError(107, "bad request parameter")
	InvalidAmount       = NewError(108, "amount is not valid")
	InvalidRosterID     = NewError(109, "roster id is not valid")
)

// state-precondition
var (
	NotFound                = NewError(200, "roster does not exist")
	AlreadyExists           = NewError(201, "roster already exists")
	PermissionDenied        = NewError(202, "caller is not allowed to do this")
	AlreadyInState          = NewError(203, "roster is already in the requested state")
	StillActive             = NewError(204, "roster is still active")
	RosterInactive          = NewError(205, "roster is not active")
	NotMember               = NewError(206, "identity is not a member")
	AlreadyMember           = NewError(207, "identity is already a member")
	NominationNotFound      = NewError(208, "nomination does not exist")
	NominationAlreadyExists = NewError(209, "nomination already exists")
	NotInVotingPeriod       = NewError(210, "not in voting period")
	AlreadyVoted            = NewError(211, "already voted")
	NotVoted                = NewError(212, "no vote to recant")
	NominationNotPending    = NewError(213, "nomination is already closed")
	NominationNotApproved   = NewError(214, "nomination is not approved")
	CannotCloseYet          = NewError(215, "cannot close yet")
	ProposalNotFound        = NewError(216, "expulsion proposal does not exist")
	ProposalAlreadyExists   = NewError(217, "expulsion proposal already exists")
	MotionerHasOpenProposal = NewError(218, "motioner already has an open proposal")
	SubjectHasOpenProposal  = NewError(219, "subject is already the target of an open proposal")
	LockedOut               = NewError(220, "identity is in lockout period")
	FounderImmune           = NewError(221, "founder can not be expelled")
	NotSecondable           = NewError(222, "proposal can not be seconded")
	AlreadySeconded         = NewError(223, "already seconded")
	NotEnoughSeconds        = NewError(224, "not enough seconds")
	NotSeconded             = NewError(225, "proposal is not seconded")
	NotVoting               = NewError(226, "proposal is not in voting")
	ProposalConcluded       = NewError(227, "proposal is already decided")
	TreasuryNotConfigured   = NewError(228, "treasury is not configured")
	HasOpenProposal         = NewError(229, "identity is part of an open proposal")
	CannotSecondOwn         = NewError(230, "motioner or subject can not second")
)

// resource
var (
	InsufficientFunds     = NewError(300, "insufficient funds")
	InsufficientReserved  = NewError(301, "insufficient reserved balance")
	MaximumBalanceReached = NewError(302, "monetary amount would be greater than the total supply of coins")
	BalanceUnderZero      = NewError(303, "balance will be under zero")
	AccountNotFound       = NewError(304, "account does not exist")
)

// invariant
var (
	CapacityExceeded  = NewError(400, "capacity exceeded")
	IncompleteCleanup = NewError(401, "could not remove every child record in one pass")
)

// internal
var (
	StorageCoreError            = NewError(500, "storage error")
	StorageRecordDoesNotExist   = NewError(501, "record does not exist in storage")
	StorageRecordAlreadyExists  = NewError(502, "record already exists in storage")
	StorageTransactionInProcess = NewError(503, "storage transaction is already opened")
	StorageTransactionNotOpened = NewError(504, "storage transaction is not opened")
	RateLimited                 = NewError(505, "too many requests")
)
