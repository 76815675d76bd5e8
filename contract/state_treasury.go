package contract

import (
	"context"

	"dao_voting/contract/dao"
	"dao_voting/sdk"
	"dao_voting/token"

	"github.com/pkg/errors"
)

// -----------------------------------------------------------------------------
// Vault
// -----------------------------------------------------------------------------

// payReward moves the configured reward out of the vault, signed by the
// registry's derived authority.
func (p *Program) payReward(ix *instruction, reg *dao.Registry, to sdk.Address) error {
	if p.reward == 0 {
		return nil
	}
	err := token.Transfer(ix.st, reg.Vault, to, p.vaultAuthority(), p.reward)
	if errors.Is(err, token.ErrInsufficientFunds) {
		return errors.Wrapf(ErrInsufficientVaultBalance, "vault %s cannot cover reward %d", reg.Vault, p.reward)
	}
	return err
}

// FundVault moves amount from the funder's associated account into the vault.
// Example payload: FundVault(ctx, alice.Signer(), 1_000_000_000)
func (p *Program) FundVault(ctx context.Context, authority sdk.Authority, amount uint64) (*dao.FundReceipt, error) {
	funder, err := signerKey(authority)
	if err != nil {
		return nil, err
	}
	out := &dao.FundReceipt{Funder: funder, Amount: amount}
	ix, err := p.execute(ctx, "fund_vault", func(ix *instruction) error {
		reg, err := p.loadRegistry(ix.st)
		if err != nil {
			return err
		}
		from, err := token.AssociatedAddress(funder, reg.Mint)
		if err != nil {
			return err
		}
		if err := token.Transfer(ix.st, from, reg.Vault, authority, amount); err != nil {
			return errors.Wrap(err, "fund vault")
		}
		balance, err := token.Balance(ix.st, reg.Vault)
		if err != nil {
			return err
		}
		out.Vault = reg.Vault
		out.VaultBalance = balance
		emitVaultFundedEvent(ix, funder, amount, balance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Receipt = receiptOf(ix)
	return out, nil
}

// VaultBalance reads how much reward is left.
func (p *Program) VaultBalance(ctx context.Context) (uint64, error) {
	var balance uint64
	err := p.view(ctx, func(st sdk.State) error {
		reg, err := p.loadRegistry(st)
		if err != nil {
			return err
		}
		balance, err = token.Balance(st, reg.Vault)
		return err
	})
	return balance, err
}
