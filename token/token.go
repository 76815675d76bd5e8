// Package token is the fungible-token primitive: mints, token accounts and
// transfers. Records are owned by ProgramID and live in the same State as the
// governance records, so a transfer commits or rolls back together with
// whatever else the instruction wrote.
package token

import (
	"dao_voting/sdk"

	"github.com/pkg/errors"
)

var (
	// ProgramID owns every mint and token account record.
	ProgramID = sdk.NewProgramID("token")
	// AssociatedProgramID derives the canonical token account of an owner.
	AssociatedProgramID = sdk.NewProgramID("associated_token")
)

const (
	// MintSpace is authority(32) + supply(8) + decimals(1) + initialized(1).
	MintSpace uint32 = 32 + 8 + 1 + 1
	// AccountSpace is mint(32) + owner(32) + amount(8) + initialized(1).
	AccountSpace uint32 = 32 + 32 + 8 + 1
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOwnerMismatch     = errors.New("owner does not match")
	ErrMintMismatch      = errors.New("account mint mismatch")
	ErrAccountNotFound   = errors.New("token account not found")
	ErrMintNotFound      = errors.New("mint not found")
	ErrNotTokenRecord    = errors.New("record is not owned by the token program")
	ErrOverflow          = errors.New("amount overflow")
	ErrZeroAmount        = errors.New("amount must be positive")
)

type Mint struct {
	MintAuthority sdk.Address
	Supply        uint64
	Decimals      uint8
	Initialized   bool
}

type Account struct {
	Mint        sdk.Address
	Owner       sdk.Address
	Amount      uint64
	Initialized bool
}

func encodeMint(m *Mint) []byte {
	w := sdk.NewWriter()
	w.WriteAddress(m.MintAuthority)
	w.WriteUint64(m.Supply)
	w.WriteUint8(m.Decimals)
	w.WriteBool(m.Initialized)
	return w.Bytes()
}

func decodeMint(data []byte) (*Mint, error) {
	r := sdk.NewReader(data)
	var m Mint
	var err error
	if m.MintAuthority, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if m.Supply, err = r.ReadUint64(); err != nil {
		return nil, err
	}
	if m.Decimals, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if m.Initialized, err = r.ReadBool(); err != nil {
		return nil, err
	}
	return &m, nil
}

func encodeAccount(a *Account) []byte {
	w := sdk.NewWriter()
	w.WriteAddress(a.Mint)
	w.WriteAddress(a.Owner)
	w.WriteUint64(a.Amount)
	w.WriteBool(a.Initialized)
	return w.Bytes()
}

func decodeAccount(data []byte) (*Account, error) {
	r := sdk.NewReader(data)
	var a Account
	var err error
	if a.Mint, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if a.Owner, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if a.Amount, err = r.ReadUint64(); err != nil {
		return nil, err
	}
	if a.Initialized, err = r.ReadBool(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadMint reads and checks a mint record.
func LoadMint(st sdk.State, addr sdk.Address) (*Mint, error) {
	rec, err := st.Get(addr)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrapf(ErrMintNotFound, "mint %s", addr)
	}
	if rec.Owner != ProgramID || rec.Space != MintSpace {
		return nil, errors.Wrapf(ErrNotTokenRecord, "mint %s", addr)
	}
	return decodeMint(rec.Data)
}

// LoadAccount reads and checks a token account record.
func LoadAccount(st sdk.State, addr sdk.Address) (*Account, error) {
	rec, err := st.Get(addr)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrapf(ErrAccountNotFound, "account %s", addr)
	}
	if rec.Owner != ProgramID || rec.Space != AccountSpace {
		return nil, errors.Wrapf(ErrNotTokenRecord, "account %s", addr)
	}
	return decodeAccount(rec.Data)
}

// Balance is a shortcut for LoadAccount(...).Amount.
func Balance(st sdk.State, addr sdk.Address) (uint64, error) {
	acc, err := LoadAccount(st, addr)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

// DeriveMintAddress gives an authority a deterministic mint address per name,
// so no throwaway keypair is needed to create one.
func DeriveMintAddress(authority sdk.Address, name string) (sdk.Address, error) {
	addr, _, err := sdk.FindProgramAddress([][]byte{[]byte("mint"), authority[:], []byte(name)}, ProgramID)
	return addr, err
}

// AssociatedAddress derives the canonical token account for owner and mint.
func AssociatedAddress(owner, mint sdk.Address) (sdk.Address, error) {
	addr, _, err := sdk.FindProgramAddress([][]byte{owner[:], ProgramID[:], mint[:]}, AssociatedProgramID)
	return addr, err
}
