package contract

import (
	"context"

	"dao_voting/contract/dao"
	"dao_voting/sdk"

	"github.com/pkg/errors"
)

// -----------------------------------------------------------------------------
// Proposals
// -----------------------------------------------------------------------------

// CreateProposal takes the next id from the registry and opens an active
// proposal at its derived address. The counter bump and the new record land
// in the same transaction.
// Example payload: CreateProposal(ctx, bob.Signer(), "fund the docs sprint")
func (p *Program) CreateProposal(ctx context.Context, authority sdk.Authority, description string) (*dao.ProposalReceipt, error) {
	creator, err := signerKey(authority)
	if err != nil {
		return nil, err
	}
	if len(description) > dao.DescriptionBudget {
		return nil, errors.Wrapf(ErrDescriptionTooLong, "%d bytes, max %d", len(description), dao.DescriptionBudget)
	}
	out := &dao.ProposalReceipt{Creator: creator, Description: description}
	ix, err := p.execute(ctx, "create_proposal", func(ix *instruction) error {
		reg, err := p.loadRegistry(ix.st)
		if err != nil {
			return err
		}
		id, err := reg.NextProposalID()
		if err != nil {
			return errors.Wrap(ErrTallyOverflow, err.Error())
		}
		addr, bump, err := sdk.FindProgramAddress(proposalSeeds(p.registry, id), p.id)
		if err != nil {
			return err
		}
		prpsl := &dao.Proposal{
			ID:          id,
			Creator:     creator,
			Description: description,
			Active:      true,
			Bump:        bump,
		}
		if err := p.createProposal(ix.st, addr, prpsl); err != nil {
			return err
		}
		if err := p.saveRegistry(ix.st, reg); err != nil {
			return err
		}
		out.Proposal = addr
		out.ID = id
		emitProposalCreatedEvent(ix, id, creator)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Receipt = receiptOf(ix)
	return out, nil
}

// CloseProposal flips an active proposal to closed. Tallies stay as they are.
// Example payload: CloseProposal(ctx, bob.Signer(), proposalAddr)
func (p *Program) CloseProposal(ctx context.Context, authority sdk.Authority, proposal sdk.Address) (*dao.CloseReceipt, error) {
	caller, err := signerKey(authority)
	if err != nil {
		return nil, err
	}
	out := &dao.CloseReceipt{Proposal: proposal}
	ix, err := p.execute(ctx, "close_proposal", func(ix *instruction) error {
		if _, err := p.loadRegistry(ix.st); err != nil {
			return err
		}
		prpsl, err := p.loadProposal(ix.st, proposal)
		if err != nil {
			return err
		}
		if p.creatorClose && caller != prpsl.Creator {
			return errors.Wrapf(ErrUnauthorized, "only creator %s may close proposal %d", prpsl.Creator, prpsl.ID)
		}
		if !prpsl.Active {
			return errors.Wrapf(ErrProposalNotActive, "proposal %d", prpsl.ID)
		}
		prpsl.Active = false
		if err := saveProposal(ix.st, proposal, prpsl); err != nil {
			return err
		}
		out.ProposalID = prpsl.ID
		out.VotesFor = prpsl.VotesFor
		out.VotesAgainst = prpsl.VotesAgainst
		emitProposalStateChangedEvent(ix, prpsl.ID, prpsl.State())
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Receipt = receiptOf(ix)
	return out, nil
}
