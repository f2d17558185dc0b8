package common

import (
	"time"

	"github.com/ulule/limiter"
)

//
// Config holds the governance parameters shared by the roster registry, the
// nomination engine and the expulsion engine. Every period is counted in
// block heights, every deposit in `Amount`.
//
type Config struct {
	NetworkID []byte

	// BlockTime is the wall-clock interval the node advances its height by
	// one. Not used by the engines.
	BlockTime time.Duration

	RosterDeposit     Amount
	NominationDeposit Amount
	MembershipDues    Amount
	ProposalDeposit   Amount

	NominationVotingPeriod   Height
	NominationQuorumMin      Perbill
	NominationQuorumModifier Perbill

	AwaitingSecondPeriod    Height
	SecondThreshold         int
	ExpulsionVotingPeriod   Height
	ExpulsionQuorumMin      Perbill
	ExpulsionQuorumModifier Perbill
	Supermajority           Perbill
	ReparationsPercent      Perbill
	LockoutPeriod           Height

	// Treasury receives slashed deposits and dues. Empty means not
	// configured.
	Treasury string

	MaxTitleLength  int
	MinReasonLength int
	MaxReasonLength int
	MaxMembers      int
	MaxVotes        int
	MaxSeconds      int
	MaxNominations  int
	MaxExpulsions   int
	MaxConcluded    int
	MaxRemovalBatch int
	CleanupBatch    int

	// Admin may call `ForceAddMembers` over the API. Empty disables it.
	Admin string

	HTTPCacheAdapter    string
	HTTPCachePoolSize   int
	HTTPCacheRedisAddrs map[string]string
	HTTPCacheExpire     time.Duration

	RateLimitRuleAPI RateLimitRule
}

// RateLimitRule is the default rate and the per ip address rates. A rate
// with `Limit` 0 is unlimited.
type RateLimitRule struct {
	Default     limiter.Rate
	ByIPAddress map[string]limiter.Rate
}

func NewRateLimitRule(rate limiter.Rate) RateLimitRule {
	return RateLimitRule{
		Default:     rate,
		ByIPAddress: map[string]limiter.Rate{},
	}
}

const (
	HTTPCacheMemoryAdapterName = "mem"
	HTTPCacheRedisAdapterName  = "redis"
	HTTPCacheNoneAdapterName   = "none"
)

var (
	RateLimitAPI = limiter.Rate{
		Period: 1 * time.Second,
		Limit:  100,
	}
)

const (
	DefaultBlockTime = 5 * time.Second

	DefaultRosterDeposit     Amount = 100 * AmountPerCoin
	DefaultNominationDeposit Amount = 10 * AmountPerCoin
	DefaultMembershipDues    Amount = 10 * AmountPerCoin
	DefaultProposalDeposit   Amount = 50 * AmountPerCoin

	DefaultNominationVotingPeriod Height = 100
	DefaultAwaitingSecondPeriod   Height = 50
	DefaultExpulsionVotingPeriod  Height = 100
	DefaultLockoutPeriod          Height = 500
	DefaultSecondThreshold        int    = 2

	DefaultMaxTitleLength  int = 64
	DefaultMinReasonLength int = 8
	DefaultMaxReasonLength int = 256
	DefaultMaxMembers      int = 256
	DefaultMaxVotes        int = 256
	DefaultMaxSeconds      int = 16
	DefaultMaxNominations  int = 32
	DefaultMaxExpulsions   int = 16
	DefaultMaxConcluded    int = 1024
	DefaultMaxRemovalBatch int = 64
	DefaultCleanupBatch    int = 32

	DefaultHTTPCachePoolSize int           = 10000
	DefaultHTTPCacheExpire   time.Duration = 1 * time.Minute
)

func NewConfig(networkID []byte) Config {
	p := Config{}

	p.NetworkID = networkID
	p.BlockTime = DefaultBlockTime

	p.RosterDeposit = DefaultRosterDeposit
	p.NominationDeposit = DefaultNominationDeposit
	p.MembershipDues = DefaultMembershipDues
	p.ProposalDeposit = DefaultProposalDeposit

	p.NominationVotingPeriod = DefaultNominationVotingPeriod
	p.NominationQuorumMin = PerbillFromPercent(50)
	p.NominationQuorumModifier = PerbillFromPercent(100)

	p.AwaitingSecondPeriod = DefaultAwaitingSecondPeriod
	p.SecondThreshold = DefaultSecondThreshold
	p.ExpulsionVotingPeriod = DefaultExpulsionVotingPeriod
	p.ExpulsionQuorumMin = PerbillFromPercent(50)
	p.ExpulsionQuorumModifier = PerbillFromPercent(100)
	p.Supermajority = PerbillFromPercent(67)
	p.ReparationsPercent = PerbillFromPercent(50)
	p.LockoutPeriod = DefaultLockoutPeriod

	p.MaxTitleLength = DefaultMaxTitleLength
	p.MinReasonLength = DefaultMinReasonLength
	p.MaxReasonLength = DefaultMaxReasonLength
	p.MaxMembers = DefaultMaxMembers
	p.MaxVotes = DefaultMaxVotes
	p.MaxSeconds = DefaultMaxSeconds
	p.MaxNominations = DefaultMaxNominations
	p.MaxExpulsions = DefaultMaxExpulsions
	p.MaxConcluded = DefaultMaxConcluded
	p.MaxRemovalBatch = DefaultMaxRemovalBatch
	p.CleanupBatch = DefaultCleanupBatch

	p.HTTPCacheAdapter = HTTPCacheMemoryAdapterName
	p.HTTPCachePoolSize = DefaultHTTPCachePoolSize
	p.HTTPCacheRedisAddrs = map[string]string{}
	p.HTTPCacheExpire = DefaultHTTPCacheExpire

	p.RateLimitRuleAPI = NewRateLimitRule(RateLimitAPI)

	return p
}
