package contract

import "dao_voting/sdk"

// -----------------------------------------------------------------------------
// Derived addresses
// -----------------------------------------------------------------------------

// packU64LE appends the encoded number to dst and returns the new slice.
func packU64LE(x uint64, dst []byte) []byte {
	return append(dst,
		byte(x),
		byte(x>>8),
		byte(x>>16),
		byte(x>>24),
		byte(x>>32),
		byte(x>>40),
		byte(x>>48),
		byte(x>>56),
	)
}

// registrySeeds is the single seed behind the registry and vault authority.
func registrySeeds() [][]byte {
	return [][]byte{[]byte(seedRegistry)}
}

// proposalSeeds builds ["proposal", registry, id LE].
func proposalSeeds(registry sdk.Address, id uint64) [][]byte {
	return [][]byte{[]byte(seedProposal), registry.Bytes(), packU64LE(id, make([]byte, 0, 8))}
}

// ballotSeeds builds ["ballot", proposal, voter] so one voter gets one ballot per proposal.
func ballotSeeds(proposal, voter sdk.Address) [][]byte {
	return [][]byte{[]byte(seedBallot), proposal.Bytes(), voter.Bytes()}
}

// DeriveRegistryAddress is where the registry of programID lives. It is also
// the owner of the vault.
func DeriveRegistryAddress(programID sdk.Address) (sdk.Address, uint8, error) {
	return sdk.FindProgramAddress(registrySeeds(), programID)
}

// DeriveProposalAddress works without a store, clients use it to sign for a proposal by id.
// Example payload: DeriveProposalAddress(DefaultProgramID, 3)
func DeriveProposalAddress(programID sdk.Address, id uint64) (sdk.Address, error) {
	registry, _, err := DeriveRegistryAddress(programID)
	if err != nil {
		return sdk.ZeroAddress, err
	}
	addr, _, err := sdk.FindProgramAddress(proposalSeeds(registry, id), programID)
	return addr, err
}

// ProposalAddress derives where proposal id lives.
// Example payload: p.ProposalAddress(0)
func (p *Program) ProposalAddress(id uint64) (sdk.Address, error) {
	addr, _, err := sdk.FindProgramAddress(proposalSeeds(p.registry, id), p.id)
	return addr, err
}

// BallotAddress derives the ballot slot for voter on proposal.
func (p *Program) BallotAddress(proposal, voter sdk.Address) (sdk.Address, error) {
	addr, _, err := sdk.FindProgramAddress(ballotSeeds(proposal, voter), p.id)
	return addr, err
}

// RegistryAddress is fixed per program id.
func (p *Program) RegistryAddress() sdk.Address { return p.registry }

// vaultAuthority is what the program signs vault debits with.
func (p *Program) vaultAuthority() sdk.DerivedAuthority {
	return sdk.DerivedAuthority{ProgramID: p.id, Seeds: registrySeeds(), Bump: p.registryBump}
}
