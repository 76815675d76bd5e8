package sdk

import "github.com/pkg/errors"

// Authority proves control over an account for a token instruction. The token
// program only ever asks for the address it resolves to.
type Authority interface {
	Key() (Address, error)
}

// Signer is a caller whose signature was already checked by the transport.
// Holding one means "this address signed the instruction".
type Signer struct {
	Address Address
}

// NewSigner wraps a verified address.
func NewSigner(addr Address) Signer {
	return Signer{Address: addr}
}

// Key returns the signing address itself.
func (s Signer) Key() (Address, error) {
	if s.Address.IsZero() {
		return ZeroAddress, errors.New("missing signer")
	}
	return s.Address, nil
}

// DerivedAuthority signs for a program-derived address by presenting the seeds
// and bump it was derived from. No private key exists for it.
type DerivedAuthority struct {
	ProgramID Address
	Seeds     [][]byte
	Bump      uint8
}

// Key re-derives the address from seeds+bump, so a wrong bump or seed set
// resolves to a different (non-matching) address or fails outright.
func (d DerivedAuthority) Key() (Address, error) {
	seeds := make([][]byte, 0, len(d.Seeds)+1)
	seeds = append(seeds, d.Seeds...)
	seeds = append(seeds, []byte{d.Bump})
	addr, err := CreateProgramAddress(seeds, d.ProgramID)
	if err != nil {
		return ZeroAddress, errors.Wrap(err, "derive authority")
	}
	return addr, nil
}
