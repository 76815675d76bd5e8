package dao

import (
	"bytes"

	"dao_voting/sdk"

	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/pkg/errors"
)

// DiscriminatorLength is the size of the type tag in front of every record.
const DiscriminatorLength = 8

// ErrDiscriminator means the record bytes belong to some other type.
var ErrDiscriminator = errors.New("record discriminator mismatch")

var (
	registryDiscriminator = discriminator("Registry")
	proposalDiscriminator = discriminator("Proposal")
	ballotDiscriminator   = discriminator("Ballot")
	nonceDiscriminator    = discriminator("Nonce")
)

func discriminator(name string) []byte {
	return tmhash.Sum([]byte("account:" + name))[:DiscriminatorLength]
}

// readTag checks the leading discriminator so a ballot never decodes as a proposal.
func readTag(r *sdk.Reader, want []byte) error {
	tag, err := r.ReadRaw(DiscriminatorLength)
	if err != nil {
		return err
	}
	if !bytes.Equal(tag, want) {
		return ErrDiscriminator
	}
	return nil
}

// EncodeRegistry serializes the registry into its fixed layout.
// Example payload: EncodeRegistry(&dao.Registry{Bump: 254})
func EncodeRegistry(reg *Registry) []byte {
	w := sdk.NewWriter()
	w.WriteRaw(registryDiscriminator)
	w.WriteUint8(reg.Bump)
	w.WriteUint64(reg.ProposalCount)
	w.WriteAddress(reg.Authority)
	w.WriteAddress(reg.Mint)
	w.WriteAddress(reg.Vault)
	return w.Bytes()
}

// DecodeRegistry reads the registry layout back.
func DecodeRegistry(data []byte) (*Registry, error) {
	r := sdk.NewReader(data)
	if err := readTag(r, registryDiscriminator); err != nil {
		return nil, err
	}
	reg := &Registry{}
	var err error
	if reg.Bump, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if reg.ProposalCount, err = r.ReadUint64(); err != nil {
		return nil, err
	}
	if reg.Authority, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if reg.Mint, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if reg.Vault, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	return reg, nil
}

// EncodeProposal serializes a proposal, padding the description to its budget.
// Example payload: EncodeProposal(&dao.Proposal{ID: 1, Description: "fund the docs"})
func EncodeProposal(p *Proposal) ([]byte, error) {
	w := sdk.NewWriter()
	w.WriteRaw(proposalDiscriminator)
	w.WriteUint64(p.ID)
	w.WriteAddress(p.Creator)
	if err := w.WriteString(p.Description, DescriptionBudget); err != nil {
		return nil, err
	}
	w.WriteUint64(p.VotesFor)
	w.WriteUint64(p.VotesAgainst)
	w.WriteBool(p.Active)
	w.WriteUint8(p.Bump)
	return w.Bytes(), nil
}

// DecodeProposal reads a proposal record.
func DecodeProposal(data []byte) (*Proposal, error) {
	r := sdk.NewReader(data)
	if err := readTag(r, proposalDiscriminator); err != nil {
		return nil, err
	}
	p := &Proposal{}
	var err error
	if p.ID, err = r.ReadUint64(); err != nil {
		return nil, err
	}
	if p.Creator, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if p.Description, err = r.ReadString(DescriptionBudget); err != nil {
		return nil, err
	}
	if p.VotesFor, err = r.ReadUint64(); err != nil {
		return nil, err
	}
	if p.VotesAgainst, err = r.ReadUint64(); err != nil {
		return nil, err
	}
	if p.Active, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if p.Bump, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	return p, nil
}

func EncodeBallot(b *Ballot) []byte {
	w := sdk.NewWriter()
	w.WriteRaw(ballotDiscriminator)
	w.WriteAddress(b.Proposal)
	w.WriteAddress(b.Voter)
	w.WriteBool(b.VoteFor)
	w.WriteUint64(b.Reward)
	w.WriteUint8(b.Bump)
	return w.Bytes()
}

func DecodeBallot(data []byte) (*Ballot, error) {
	r := sdk.NewReader(data)
	if err := readTag(r, ballotDiscriminator); err != nil {
		return nil, err
	}
	b := &Ballot{}
	var err error
	if b.Proposal, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if b.Voter, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if b.VoteFor, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if b.Reward, err = r.ReadUint64(); err != nil {
		return nil, err
	}
	if b.Bump, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	return b, nil
}

// EncodeNonce is the marker left behind once signer used nonce.
func EncodeNonce(signer sdk.Address, nonce uint64) []byte {
	w := sdk.NewWriter()
	w.WriteRaw(nonceDiscriminator)
	w.WriteAddress(signer)
	w.WriteUint64(nonce)
	return w.Bytes()
}

// DecodeNonce returns the signer and nonce of a marker.
func DecodeNonce(data []byte) (sdk.Address, uint64, error) {
	r := sdk.NewReader(data)
	if err := readTag(r, nonceDiscriminator); err != nil {
		return sdk.ZeroAddress, 0, err
	}
	signer, err := r.ReadAddress()
	if err != nil {
		return sdk.ZeroAddress, 0, err
	}
	nonce, err := r.ReadUint64()
	if err != nil {
		return sdk.ZeroAddress, 0, err
	}
	return signer, nonce, nil
}
