package contract

import (
	"context"

	"dao_voting/contract/dao"
	"dao_voting/sdk"

	"github.com/pkg/errors"
)

// -----------------------------------------------------------------------------
// Request nonces
// -----------------------------------------------------------------------------

type nonceKey struct{}

type nonceClaim struct {
	signer sdk.Address
	nonce  uint64
}

// WithNonce marks the next instruction run with ctx as the one request signer
// sent under nonce. The instruction fails with ErrNonceUsed if that pair
// already committed once.
// Example payload: prog.FundVault(WithNonce(ctx, alice, 7), alice.Signer(), 100)
func WithNonce(ctx context.Context, signer sdk.Address, nonce uint64) context.Context {
	return context.WithValue(ctx, nonceKey{}, nonceClaim{signer: signer, nonce: nonce})
}

func nonceFrom(ctx context.Context) (nonceClaim, bool) {
	c, ok := ctx.Value(nonceKey{}).(nonceClaim)
	return c, ok
}

// nonceSeeds builds ["nonce", signer, nonce LE].
func nonceSeeds(signer sdk.Address, nonce uint64) [][]byte {
	return [][]byte{[]byte(seedNonce), signer.Bytes(), packU64LE(nonce, make([]byte, 0, 8))}
}

// NonceAddress derives the marker slot for signer and nonce.
func (p *Program) NonceAddress(signer sdk.Address, nonce uint64) (sdk.Address, error) {
	addr, _, err := sdk.FindProgramAddress(nonceSeeds(signer, nonce), p.id)
	return addr, err
}

func (p *Program) claimNonce(st sdk.State, c nonceClaim) error {
	if c.signer.IsZero() {
		return errors.Wrap(ErrUnauthorized, "nonce without signer")
	}
	addr, err := p.NonceAddress(c.signer, c.nonce)
	if err != nil {
		return err
	}
	err = st.Create(addr, p.id, dao.NonceSpace, dao.EncodeNonce(c.signer, c.nonce))
	if errors.Is(err, sdk.ErrRecordExists) {
		return errors.Wrapf(ErrNonceUsed, "signer %s nonce %d", c.signer, c.nonce)
	}
	return err
}

// NonceUsed reports whether signer already spent nonce on a committed instruction.
func (p *Program) NonceUsed(ctx context.Context, signer sdk.Address, nonce uint64) (bool, error) {
	addr, err := p.NonceAddress(signer, nonce)
	if err != nil {
		return false, err
	}
	var used bool
	err = p.view(ctx, func(st sdk.State) error {
		rec, err := st.Get(addr)
		if err != nil {
			return err
		}
		used = rec != nil && rec.Owner == p.id
		return nil
	})
	return used, err
}
