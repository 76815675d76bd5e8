package contract

import (
	"context"

	"dao_voting/contract/dao"
	"dao_voting/sdk"
	"dao_voting/token"

	"github.com/pkg/errors"
)

// -----------------------------------------------------------------------------
// Initialization
// -----------------------------------------------------------------------------

// Initialize creates the registry with the signer as authority and the vault
// as the registry's associated account for mint. Runs once per program id.
// Example payload: Initialize(ctx, alice.Signer(), mintAddr)
func (p *Program) Initialize(ctx context.Context, authority sdk.Authority, mint sdk.Address) (*dao.InitReceipt, error) {
	signer, err := signerKey(authority)
	if err != nil {
		return nil, err
	}
	out := &dao.InitReceipt{Registry: p.registry, Authority: signer, Mint: mint, Bump: p.registryBump}
	ix, err := p.execute(ctx, "initialize", func(ix *instruction) error {
		initialized, err := p.isInitialized(ix.st)
		if err != nil {
			return err
		}
		if initialized {
			return ErrAlreadyInitialized
		}
		if _, err := token.LoadMint(ix.st, mint); err != nil {
			return errors.Wrapf(ErrInvalidAccount, "mint %s: %v", mint, err)
		}
		vault, _, err := token.CreateAssociatedAccount(ix.st, p.registry, mint)
		if err != nil {
			return errors.Wrap(err, "create vault")
		}
		reg := &dao.Registry{
			Bump:      p.registryBump,
			Authority: signer,
			Mint:      mint,
			Vault:     vault,
		}
		if err := ix.st.Create(p.registry, p.id, dao.RegistrySpace, dao.EncodeRegistry(reg)); err != nil {
			return errors.Wrap(err, "create registry")
		}
		out.Vault = vault
		emitRegistryInitializedEvent(ix, signer, mint, vault)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Receipt = receiptOf(ix)
	return out, nil
}
