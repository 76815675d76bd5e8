package contract

import (
	"context"

	"dao_voting/contract/dao"
	"dao_voting/sdk"
	"dao_voting/token"

	"github.com/pkg/errors"
)

// -----------------------------------------------------------------------------
// Queries
// -----------------------------------------------------------------------------

// Registry returns the registry record plus the live vault balance.
func (p *Program) Registry(ctx context.Context) (*dao.RegistryInfo, error) {
	var info *dao.RegistryInfo
	err := p.view(ctx, func(st sdk.State) error {
		reg, err := p.loadRegistry(st)
		if err != nil {
			return err
		}
		balance, err := token.Balance(st, reg.Vault)
		if err != nil {
			return err
		}
		info = &dao.RegistryInfo{Address: p.registry, Registry: *reg, VaultBalance: balance}
		return nil
	})
	return info, err
}

// Proposal reads the proposal stored at addr.
func (p *Program) Proposal(ctx context.Context, addr sdk.Address) (*dao.ProposalInfo, error) {
	var info *dao.ProposalInfo
	err := p.view(ctx, func(st sdk.State) error {
		prpsl, err := p.loadProposal(st, addr)
		if err != nil {
			return err
		}
		info = &dao.ProposalInfo{Address: addr, Proposal: *prpsl}
		return nil
	})
	return info, err
}

// ProposalByID derives the address for id and reads it.
// Example payload: ProposalByID(ctx, 4)
func (p *Program) ProposalByID(ctx context.Context, id uint64) (*dao.ProposalInfo, error) {
	addr, err := p.ProposalAddress(id)
	if err != nil {
		return nil, err
	}
	return p.Proposal(ctx, addr)
}

// Proposals lists every proposal by walking ids up to the registry count,
// so no separate index is needed.
func (p *Program) Proposals(ctx context.Context) (dao.ProposalList, error) {
	var out dao.ProposalList
	err := p.view(ctx, func(st sdk.State) error {
		reg, err := p.loadRegistry(st)
		if err != nil {
			return err
		}
		out = make(dao.ProposalList, 0, reg.ProposalCount)
		for id := uint64(0); id < reg.ProposalCount; id++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			addr, _, err := sdk.FindProgramAddress(proposalSeeds(p.registry, id), p.id)
			if err != nil {
				return err
			}
			prpsl, err := p.loadProposal(st, addr)
			if err != nil {
				return err
			}
			out = append(out, dao.ProposalInfo{Address: addr, Proposal: *prpsl})
		}
		return nil
	})
	return out, err
}

// Ballot returns the ballot voter cast on proposal, or BallotNotFound.
func (p *Program) Ballot(ctx context.Context, proposal, voter sdk.Address) (*dao.BallotInfo, error) {
	addr, err := p.BallotAddress(proposal, voter)
	if err != nil {
		return nil, err
	}
	var info *dao.BallotInfo
	err = p.view(ctx, func(st sdk.State) error {
		b, err := p.loadBallot(st, addr)
		if err != nil {
			return err
		}
		info = &dao.BallotInfo{Address: addr, Ballot: *b}
		return nil
	})
	return info, err
}

// HasVoted is the boolean flavour of Ballot.
func (p *Program) HasVoted(ctx context.Context, proposal, voter sdk.Address) (bool, error) {
	_, err := p.Ballot(ctx, proposal, voter)
	if errors.Is(err, ErrBallotNotFound) {
		return false, nil
	}
	return err == nil, err
}

// TokenBalance returns what owner holds of the registry mint in their
// associated account. No account yet reads as zero.
func (p *Program) TokenBalance(ctx context.Context, owner sdk.Address) (uint64, error) {
	var balance uint64
	err := p.view(ctx, func(st sdk.State) error {
		reg, err := p.loadRegistry(st)
		if err != nil {
			return err
		}
		acc, err := token.AssociatedAddress(owner, reg.Mint)
		if err != nil {
			return err
		}
		balance, err = token.Balance(st, acc)
		if errors.Is(err, token.ErrAccountNotFound) {
			balance, err = 0, nil
		}
		return err
	})
	return balance, err
}
