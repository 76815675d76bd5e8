package contract

import (
	"dao_voting/contract/dao"
	"dao_voting/sdk"
)

const (
	// DefaultProgramName seeds the program id when none is configured.
	DefaultProgramName = "dao_voting"
	// DefaultRewardAmount is 10 tokens at 6 decimals.
	DefaultRewardAmount uint64 = 10_000_000
	// DescriptionBudget mirrors the record budget for callers that only import contract.
	DescriptionBudget = dao.DescriptionBudget
)

// DefaultProgramID is the program id derived from DefaultProgramName.
var DefaultProgramID = sdk.NewProgramID(DefaultProgramName)

const (
	seedRegistry = "registry"
	seedProposal = "proposal"
	seedBallot   = "ballot"
	seedNonce    = "nonce"
)
