package contract

import (
	"fmt"

	"dao_voting/contract/dao"
	"dao_voting/sdk"
)

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// emitRegistryInitializedEvent pings watchers once the registry and vault exist.
func emitRegistryInitializedEvent(ix *instruction, authority, mint, vault sdk.Address) {
	ix.emit(fmt.Sprintf(
		"ri|by:%s|mint:%s|vault:%s",
		authority,
		mint,
		vault,
	))
}

// emitProposalCreatedEvent keeps observers updated with a short pc line for every new idea.
func emitProposalCreatedEvent(ix *instruction, proposalId uint64, creator sdk.Address) {
	ix.emit(fmt.Sprintf(
		"pc|id:%d|by:%s",
		proposalId,
		creator,
	))
}

// emitVoteCastEvent logs choice and the reward paid out.
func emitVoteCastEvent(ix *instruction, proposalId uint64, voter sdk.Address, voteFor bool, reward uint64) {
	ix.emit(fmt.Sprintf(
		"v|id:%d|by:%s|f:%d|r:%d",
		proposalId,
		voter,
		boolFlag(voteFor),
		reward,
	))
}

// emitRewardAccountCreatedEvent fires when a first time voter gets a token account.
func emitRewardAccountCreatedEvent(ix *instruction, owner, account sdk.Address) {
	ix.emit(fmt.Sprintf(
		"ra|by:%s|acc:%s",
		owner,
		account,
	))
}

// emitProposalStateChangedEvent is the log entry for any state flip.
func emitProposalStateChangedEvent(ix *instruction, proposalId uint64, state dao.ProposalState) {
	ix.emit(fmt.Sprintf(
		"ps|id:%d|s:%s",
		proposalId,
		state.String(),
	))
}

// emitVaultFundedEvent notes every deposit into the reward vault.
func emitVaultFundedEvent(ix *instruction, funder sdk.Address, amount, balance uint64) {
	ix.emit(fmt.Sprintf(
		"vf|by:%s|am:%d|bal:%d",
		funder,
		amount,
		balance,
	))
}
