package token

import (
	"math"

	"dao_voting/sdk"

	"github.com/pkg/errors"
)

// InitializeMint creates a mint record at addr. Fails with sdk.ErrRecordExists
// when something already lives there.
func InitializeMint(st sdk.State, addr, mintAuthority sdk.Address, decimals uint8) error {
	m := &Mint{MintAuthority: mintAuthority, Decimals: decimals, Initialized: true}
	return errors.Wrap(st.Create(addr, ProgramID, MintSpace, encodeMint(m)), "initialize mint")
}

// InitializeAccount creates an empty token account for owner at addr.
func InitializeAccount(st sdk.State, addr, mint, owner sdk.Address) error {
	if _, err := LoadMint(st, mint); err != nil {
		return err
	}
	acc := &Account{Mint: mint, Owner: owner, Initialized: true}
	return errors.Wrap(st.Create(addr, ProgramID, AccountSpace, encodeAccount(acc)), "initialize account")
}

// CreateAssociatedAccount returns the owner's canonical account for mint,
// creating it when missing. created tells the caller which case happened.
func CreateAssociatedAccount(st sdk.State, owner, mint sdk.Address) (addr sdk.Address, created bool, err error) {
	addr, err = AssociatedAddress(owner, mint)
	if err != nil {
		return addr, false, err
	}
	existing, err := st.Get(addr)
	if err != nil {
		return addr, false, err
	}
	if existing != nil {
		acc, err := LoadAccount(st, addr)
		if err != nil {
			return addr, false, err
		}
		if acc.Owner != owner {
			return addr, false, errors.Wrapf(ErrOwnerMismatch, "associated account %s", addr)
		}
		if acc.Mint != mint {
			return addr, false, errors.Wrapf(ErrMintMismatch, "associated account %s", addr)
		}
		return addr, false, nil
	}
	if err := InitializeAccount(st, addr, mint, owner); err != nil {
		return addr, false, err
	}
	return addr, true, nil
}

// MintTo creates amount new tokens in account to. Only the mint authority may.
func MintTo(st sdk.State, mintAddr, to sdk.Address, authority sdk.Authority, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	mint, err := LoadMint(st, mintAddr)
	if err != nil {
		return err
	}
	key, err := authority.Key()
	if err != nil {
		return err
	}
	if key != mint.MintAuthority {
		return errors.Wrapf(ErrOwnerMismatch, "mint authority of %s", mintAddr)
	}
	acc, err := LoadAccount(st, to)
	if err != nil {
		return err
	}
	if acc.Mint != mintAddr {
		return errors.Wrapf(ErrMintMismatch, "account %s", to)
	}
	if mint.Supply > math.MaxUint64-amount || acc.Amount > math.MaxUint64-amount {
		return ErrOverflow
	}
	mint.Supply += amount
	acc.Amount += amount
	if err := st.Put(mintAddr, encodeMint(mint)); err != nil {
		return err
	}
	return st.Put(to, encodeAccount(acc))
}

// Transfer moves amount from one account to another of the same mint. The
// authority must resolve to the owner of from. It fails closed: an account
// never goes below zero and every check runs before the first write.
func Transfer(st sdk.State, from, to sdk.Address, authority sdk.Authority, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	src, err := LoadAccount(st, from)
	if err != nil {
		return err
	}
	dst, err := LoadAccount(st, to)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return errors.Wrapf(ErrMintMismatch, "%s -> %s", from, to)
	}
	key, err := authority.Key()
	if err != nil {
		return err
	}
	if key != src.Owner {
		return errors.Wrapf(ErrOwnerMismatch, "authority %s for account %s", key, from)
	}
	if src.Amount < amount {
		return errors.Wrapf(ErrInsufficientFunds, "account %s holds %d, needs %d", from, src.Amount, amount)
	}
	if from == to {
		return nil
	}
	if dst.Amount > math.MaxUint64-amount {
		return ErrOverflow
	}
	src.Amount -= amount
	dst.Amount += amount
	if err := st.Put(from, encodeAccount(src)); err != nil {
		return err
	}
	return st.Put(to, encodeAccount(dst))
}
