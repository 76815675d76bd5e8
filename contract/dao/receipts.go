package dao

import "dao_voting/sdk"

// Receipt is what every committed instruction hands back: a tx id plus the
// event lines it emitted.
type Receipt struct {
	TxID string
	Logs []string
}

type InitReceipt struct {
	Receipt
	Registry  sdk.Address
	Authority sdk.Address
	Mint      sdk.Address
	Vault     sdk.Address
	Bump      uint8
}

type ProposalReceipt struct {
	Receipt
	Proposal    sdk.Address
	ID          uint64
	Creator     sdk.Address
	Description string
}

type VoteReceipt struct {
	Receipt
	Proposal     sdk.Address
	ProposalID   uint64
	Voter        sdk.Address
	Ballot       sdk.Address
	VoterAccount sdk.Address
	VoteFor      bool
	Reward       uint64
	VotesFor     uint64
	VotesAgainst uint64
}

type CloseReceipt struct {
	Receipt
	Proposal     sdk.Address
	ProposalID   uint64
	VotesFor     uint64
	VotesAgainst uint64
}

type FundReceipt struct {
	Receipt
	Funder       sdk.Address
	Vault        sdk.Address
	Amount       uint64
	VaultBalance uint64
}
