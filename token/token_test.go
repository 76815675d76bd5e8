package token_test

import (
	"context"
	"testing"

	"dao_voting/sdk"
	"dao_voting/store/memstore"
	"dao_voting/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	st    *memstore.Store
	admin *sdk.Keypair
	mint  sdk.Address
}

// newFixture sets up one mint owned by a fresh admin keypair.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{st: memstore.New(), admin: sdk.KeypairFromSecret([]byte("admin"))}
	mint, err := token.DeriveMintAddress(f.admin.Address(), "reward")
	require.NoError(t, err)
	f.mint = mint
	require.NoError(t, f.update(func(st sdk.State) error {
		return token.InitializeMint(st, mint, f.admin.Address(), 6)
	}))
	return f
}

func (f *fixture) update(fn func(sdk.State) error) error {
	return f.st.Update(context.Background(), fn)
}

func (f *fixture) account(t *testing.T, owner sdk.Address) sdk.Address {
	t.Helper()
	var addr sdk.Address
	require.NoError(t, f.update(func(st sdk.State) error {
		var err error
		addr, _, err = token.CreateAssociatedAccount(st, owner, f.mint)
		return err
	}))
	return addr
}

func (f *fixture) balance(t *testing.T, addr sdk.Address) uint64 {
	t.Helper()
	var bal uint64
	require.NoError(t, f.st.View(context.Background(), func(st sdk.State) error {
		var err error
		bal, err = token.Balance(st, addr)
		return err
	}))
	return bal
}

// TestMintAndTransfer checks the happy path of minting and moving tokens.
func TestMintAndTransfer(t *testing.T) {
	f := newFixture(t)
	alice := sdk.KeypairFromSecret([]byte("alice"))
	bob := sdk.KeypairFromSecret([]byte("bob"))
	aliceAcc := f.account(t, alice.Address())
	bobAcc := f.account(t, bob.Address())

	require.NoError(t, f.update(func(st sdk.State) error {
		return token.MintTo(st, f.mint, aliceAcc, f.admin.Signer(), 100)
	}))
	require.NoError(t, f.update(func(st sdk.State) error {
		return token.Transfer(st, aliceAcc, bobAcc, alice.Signer(), 40)
	}))

	assert.Equal(t, uint64(60), f.balance(t, aliceAcc))
	assert.Equal(t, uint64(40), f.balance(t, bobAcc))
}

// TestAssociatedAccountIdempotent makes sure creating the same account twice hands back the first one.
func TestAssociatedAccountIdempotent(t *testing.T) {
	f := newFixture(t)
	owner := sdk.KeypairFromSecret([]byte("owner")).Address()
	var first, second sdk.Address
	var created1, created2 bool
	require.NoError(t, f.update(func(st sdk.State) error {
		var err error
		first, created1, err = token.CreateAssociatedAccount(st, owner, f.mint)
		return err
	}))
	require.NoError(t, f.update(func(st sdk.State) error {
		var err error
		second, created2, err = token.CreateAssociatedAccount(st, owner, f.mint)
		return err
	}))
	assert.Equal(t, first, second)
	assert.True(t, created1)
	assert.False(t, created2)
}

// TestTransferFailsClosed checks that an overdraft is rejected and balances stay put.
func TestTransferFailsClosed(t *testing.T) {
	f := newFixture(t)
	alice := sdk.KeypairFromSecret([]byte("alice"))
	aliceAcc := f.account(t, alice.Address())
	bobAcc := f.account(t, sdk.KeypairFromSecret([]byte("bob")).Address())
	require.NoError(t, f.update(func(st sdk.State) error {
		return token.MintTo(st, f.mint, aliceAcc, f.admin.Signer(), 5)
	}))

	err := f.update(func(st sdk.State) error {
		return token.Transfer(st, aliceAcc, bobAcc, alice.Signer(), 6)
	})
	assert.ErrorIs(t, err, token.ErrInsufficientFunds)
	assert.Equal(t, uint64(5), f.balance(t, aliceAcc))
	assert.Equal(t, uint64(0), f.balance(t, bobAcc))
}

// TestTransferAuthority checks that only the owner, or the right derived signer, can move funds.
func TestTransferAuthority(t *testing.T) {
	f := newFixture(t)
	program := sdk.NewProgramID("vault-owner")
	seeds := [][]byte{[]byte("vault")}
	pda, bump, err := sdk.FindProgramAddress(seeds, program)
	require.NoError(t, err)

	vault := f.account(t, pda)
	dest := f.account(t, sdk.KeypairFromSecret([]byte("dest")).Address())
	require.NoError(t, f.update(func(st sdk.State) error {
		return token.MintTo(st, f.mint, vault, f.admin.Signer(), 50)
	}))

	err = f.update(func(st sdk.State) error {
		return token.Transfer(st, vault, dest, f.admin.Signer(), 10)
	})
	assert.ErrorIs(t, err, token.ErrOwnerMismatch)

	err = f.update(func(st sdk.State) error {
		return token.Transfer(st, vault, dest, sdk.DerivedAuthority{ProgramID: sdk.NewProgramID("elsewhere"), Seeds: seeds, Bump: bump}, 10)
	})
	assert.Error(t, err)

	require.NoError(t, f.update(func(st sdk.State) error {
		return token.Transfer(st, vault, dest, sdk.DerivedAuthority{ProgramID: program, Seeds: seeds, Bump: bump}, 10)
	}))
	assert.Equal(t, uint64(40), f.balance(t, vault))
	assert.Equal(t, uint64(10), f.balance(t, dest))
}

// TestMintToRequiresAuthority checks the mint authority guard.
func TestMintToRequiresAuthority(t *testing.T) {
	f := newFixture(t)
	acc := f.account(t, f.admin.Address())
	err := f.update(func(st sdk.State) error {
		return token.MintTo(st, f.mint, acc, sdk.KeypairFromSecret([]byte("mallory")).Signer(), 1)
	})
	assert.ErrorIs(t, err, token.ErrOwnerMismatch)

	err = f.update(func(st sdk.State) error {
		return token.MintTo(st, f.mint, acc, f.admin.Signer(), 0)
	})
	assert.ErrorIs(t, err, token.ErrZeroAmount)
}

// TestMintMismatch rejects transfers between different mints.
func TestMintMismatch(t *testing.T) {
	f := newFixture(t)
	otherMint, err := token.DeriveMintAddress(f.admin.Address(), "other")
	require.NoError(t, err)
	owner := sdk.KeypairFromSecret([]byte("owner"))
	src := f.account(t, owner.Address())

	var dst sdk.Address
	require.NoError(t, f.update(func(st sdk.State) error {
		if err := token.InitializeMint(st, otherMint, f.admin.Address(), 6); err != nil {
			return err
		}
		var err error
		dst, _, err = token.CreateAssociatedAccount(st, owner.Address(), otherMint)
		return err
	}))
	require.NoError(t, f.update(func(st sdk.State) error {
		return token.MintTo(st, f.mint, src, f.admin.Signer(), 3)
	}))

	err = f.update(func(st sdk.State) error {
		return token.Transfer(st, src, dst, owner.Signer(), 1)
	})
	assert.ErrorIs(t, err, token.ErrMintMismatch)
}
