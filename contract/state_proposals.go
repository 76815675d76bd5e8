package contract

import (
	"dao_voting/contract/dao"
	"dao_voting/sdk"

	"github.com/pkg/errors"
)

// loadProposal decodes the proposal at addr. Missing means ProposalNotFound;
// a record owned by someone else or with another layout is InvalidAccount.
func (p *Program) loadProposal(st sdk.State, addr sdk.Address) (*dao.Proposal, error) {
	rec, err := st.Get(addr)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrapf(ErrProposalNotFound, "proposal %s", addr)
	}
	if rec.Owner != p.id || rec.Space != dao.ProposalSpace {
		return nil, errors.Wrapf(ErrInvalidAccount, "proposal %s", addr)
	}
	prpsl, err := dao.DecodeProposal(rec.Data)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAccount, "decode proposal %s: %v", addr, err)
	}
	return prpsl, nil
}

// saveProposal rewrites the record in place, space never changes.
func saveProposal(st sdk.State, addr sdk.Address, prpsl *dao.Proposal) error {
	data, err := dao.EncodeProposal(prpsl)
	if err != nil {
		return err
	}
	return errors.Wrapf(st.Put(addr, data), "save proposal %d", prpsl.ID)
}

func (p *Program) createProposal(st sdk.State, addr sdk.Address, prpsl *dao.Proposal) error {
	data, err := dao.EncodeProposal(prpsl)
	if err != nil {
		return errors.Wrap(ErrDescriptionTooLong, err.Error())
	}
	if err := st.Create(addr, p.id, dao.ProposalSpace, data); err != nil {
		if errors.Is(err, sdk.ErrRecordExists) {
			return errors.Wrapf(ErrInvalidAccount, "proposal slot %s already taken", addr)
		}
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------
// Ballots
// -----------------------------------------------------------------------------

func (p *Program) loadBallot(st sdk.State, addr sdk.Address) (*dao.Ballot, error) {
	rec, err := st.Get(addr)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrapf(ErrBallotNotFound, "ballot %s", addr)
	}
	if rec.Owner != p.id || rec.Space != dao.BallotSpace {
		return nil, errors.Wrapf(ErrInvalidAccount, "ballot %s", addr)
	}
	b, err := dao.DecodeBallot(rec.Data)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAccount, "decode ballot %s: %v", addr, err)
	}
	return b, nil
}

// createBallot claims the ballot slot. An existing slot means the voter was here before.
func (p *Program) createBallot(st sdk.State, addr sdk.Address, b *dao.Ballot) error {
	err := st.Create(addr, p.id, dao.BallotSpace, dao.EncodeBallot(b))
	if errors.Is(err, sdk.ErrRecordExists) {
		return errors.Wrapf(ErrAlreadyVoted, "voter %s", b.Voter)
	}
	return err
}
