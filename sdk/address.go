package sdk

import (
	"bytes"

	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/decred/base58"
	"github.com/pkg/errors"
)

// AddressLength is the byte size of every account address.
const AddressLength = 32

// ErrInvalidAddress is returned when text or bytes do not decode to 32 bytes.
var ErrInvalidAddress = errors.New("invalid address")

// Address identifies a record in state. Keypair addresses are ed25519 public
// keys, program-derived ones are off-curve hashes.
type Address [AddressLength]byte

// ZeroAddress is never a valid owner or signer.
var ZeroAddress Address

// String returns the base58 text form (like 9xQeWvG8...) used in logs and payloads.
// Example payload: sdk.NewProgramID("dao_voting").String()
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes hands out a copy so callers cannot poke the array through a slice.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// IsZero reports whether the address was never set.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Equal is a tiny helper for readability in owner checks.
func (a Address) Equal(other Address) bool {
	return bytes.Equal(a[:], other[:])
}

// MarshalText lets yaml/json encoders print base58 instead of a byte array.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses the base58 form back.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := AddressFromString(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// AddressFromString converts base58 text into an Address.
// Example payload: sdk.AddressFromString("11111111111111111111111111111111")
func AddressFromString(s string) (Address, error) {
	if s == "" {
		return ZeroAddress, errors.Wrap(ErrInvalidAddress, "empty")
	}
	return AddressFromBytes(base58.Decode(s))
}

// MustAddress is AddressFromString for constants and tests; it panics on bad input.
func MustAddress(s string) Address {
	a, err := AddressFromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromBytes copies exactly 32 bytes into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, errors.Wrapf(ErrInvalidAddress, "got %d bytes", len(b))
	}
	copy(a[:], b)
	return a, nil
}

// NewProgramID hashes a program name into its identifier so every deployment of
// the same name lands on the same id.
// Example payload: sdk.NewProgramID("token")
func NewProgramID(name string) Address {
	var a Address
	copy(a[:], tmhash.Sum([]byte("program:"+name)))
	return a
}
