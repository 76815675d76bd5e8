package dao

import (
	"math"

	"dao_voting/sdk"

	"github.com/pkg/errors"
)

// DescriptionBudget is the max byte length of a proposal description.
const DescriptionBudget = 256

// Record spaces, discriminator included.
const (
	RegistrySpace = DiscriminatorLength + 1 + 8 + 32 + 32 + 32
	ProposalSpace = DiscriminatorLength + 8 + 32 + 4 + DescriptionBudget + 8 + 8 + 1 + 1
	BallotSpace   = DiscriminatorLength + 32 + 32 + 1 + 8 + 1
	NonceSpace    = DiscriminatorLength + 32 + 8
)

// ErrTallyOverflow is returned when a counter would wrap past max uint64.
var ErrTallyOverflow = errors.New("tally overflow")

// ProposalState captures a proposal's lifecycle.
type ProposalState uint8

const (
	ProposalStateUnspecified ProposalState = 0
	ProposalActive           ProposalState = 1
	ProposalClosed           ProposalState = 2
)

// String prints the proposal state as lower-case text for events and logs.
// Example payload: dao.ProposalClosed.String()
func (ps ProposalState) String() string {
	switch ps {
	case ProposalActive:
		return "active"
	case ProposalClosed:
		return "closed"
	default:
		return "unspecified"
	}
}

// Registry is the singleton config record. It also owns the vault, so its
// bump is what the program signs reward transfers with.
type Registry struct {
	Bump          uint8
	ProposalCount uint64
	Authority     sdk.Address
	Mint          sdk.Address
	Vault         sdk.Address
}

// NextProposalID hands out the current count and bumps it.
// Example payload: reg.NextProposalID()
func (r *Registry) NextProposalID() (uint64, error) {
	if r.ProposalCount == math.MaxUint64 {
		return 0, errors.Wrap(ErrTallyOverflow, "proposal count")
	}
	id := r.ProposalCount
	r.ProposalCount++
	return id, nil
}

type Proposal struct {
	ID           uint64
	Creator      sdk.Address
	Description  string
	VotesFor     uint64
	VotesAgainst uint64
	Active       bool
	Bump         uint8
}

// State maps the active flag onto the lifecycle enum.
func (p *Proposal) State() ProposalState {
	if p.Active {
		return ProposalActive
	}
	return ProposalClosed
}

// Count adds one vote to the matching side, refusing to wrap.
// Example payload: prpsl.Count(true)
func (p *Proposal) Count(voteFor bool) error {
	tally := &p.VotesAgainst
	if voteFor {
		tally = &p.VotesFor
	}
	if *tally == math.MaxUint64 {
		return errors.Wrapf(ErrTallyOverflow, "proposal %d", p.ID)
	}
	*tally++
	return nil
}

// Ballot marks that a voter has voted on a proposal. Its existence is the guard.
type Ballot struct {
	Proposal sdk.Address
	Voter    sdk.Address
	VoteFor  bool
	Reward   uint64
	Bump     uint8
}

// RegistryInfo is the read model served by queries.
type RegistryInfo struct {
	Address      sdk.Address
	Registry     Registry
	VaultBalance uint64
}

type ProposalInfo struct {
	Address  sdk.Address
	Proposal Proposal
}

type BallotInfo struct {
	Address sdk.Address
	Ballot  Ballot
}
