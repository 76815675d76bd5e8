package contract

import (
	"context"

	"dao_voting/contract/dao"
	"dao_voting/sdk"
	"dao_voting/token"

	"github.com/pkg/errors"
)

// -----------------------------------------------------------------------------
// Voting
// -----------------------------------------------------------------------------

// Vote records one vote per voter on an active proposal and pays the reward
// from the vault into the voter's associated account, creating it if needed.
// If the vault cannot pay, nothing sticks: no tally, no ballot, no account.
// Example payload: Vote(ctx, carol.Signer(), proposalAddr, true)
func (p *Program) Vote(ctx context.Context, authority sdk.Authority, proposal sdk.Address, voteFor bool) (*dao.VoteReceipt, error) {
	voter, err := signerKey(authority)
	if err != nil {
		return nil, err
	}
	out := &dao.VoteReceipt{Proposal: proposal, Voter: voter, VoteFor: voteFor, Reward: p.reward}
	ix, err := p.execute(ctx, "vote", func(ix *instruction) error {
		reg, err := p.loadRegistry(ix.st)
		if err != nil {
			return err
		}
		prpsl, err := p.loadProposal(ix.st, proposal)
		if err != nil {
			return err
		}
		if !prpsl.Active {
			return errors.Wrapf(ErrProposalNotActive, "proposal %d", prpsl.ID)
		}

		ballotAddr, bump, err := sdk.FindProgramAddress(ballotSeeds(proposal, voter), p.id)
		if err != nil {
			return err
		}
		existing, err := ix.st.Get(ballotAddr)
		if err != nil {
			return err
		}
		if existing != nil {
			return errors.Wrapf(ErrAlreadyVoted, "voter %s on proposal %d", voter, prpsl.ID)
		}

		if err := prpsl.Count(voteFor); err != nil {
			return errors.Wrap(ErrTallyOverflow, err.Error())
		}
		if err := saveProposal(ix.st, proposal, prpsl); err != nil {
			return err
		}
		ballot := &dao.Ballot{Proposal: proposal, Voter: voter, VoteFor: voteFor, Reward: p.reward, Bump: bump}
		if err := p.createBallot(ix.st, ballotAddr, ballot); err != nil {
			return err
		}

		account, created, err := token.CreateAssociatedAccount(ix.st, voter, reg.Mint)
		if err != nil {
			return errors.Wrap(err, "voter reward account")
		}
		if created {
			emitRewardAccountCreatedEvent(ix, voter, account)
		}
		if err := p.payReward(ix, reg, account); err != nil {
			return err
		}

		out.ProposalID = prpsl.ID
		out.Ballot = ballotAddr
		out.VoterAccount = account
		out.VotesFor = prpsl.VotesFor
		out.VotesAgainst = prpsl.VotesAgainst
		emitVoteCastEvent(ix, prpsl.ID, voter, voteFor, p.reward)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Receipt = receiptOf(ix)
	return out, nil
}
