package sdk

import (
	"filippo.io/edwards25519"
	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/pkg/errors"
)

const (
	// MaxSeeds caps how many seed slices may feed one derivation (bump included).
	MaxSeeds = 16
	// MaxSeedLength caps the size of every single seed.
	MaxSeedLength = 32

	derivationMarker = "ProgramDerivedAddress"
)

var (
	ErrMaxSeedLengthExceeded = errors.New("seed length exceeds maximum")
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrInvalidSeeds          = errors.New("seeds produce an on-curve address")
	ErrNoViableBump          = errors.New("no viable bump seed found")
)

// CreateProgramAddress hashes seeds plus program id into an address that has no
// private key. It fails when the hash happens to be a valid ed25519 point,
// because then somebody could in theory hold a key for it.
func CreateProgramAddress(seeds [][]byte, programID Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return ZeroAddress, ErrTooManySeeds
	}
	h := tmhash.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return ZeroAddress, ErrMaxSeedLengthExceeded
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(derivationMarker))
	sum := h.Sum(nil)
	if IsOnCurve(sum) {
		return ZeroAddress, ErrInvalidSeeds
	}
	return AddressFromBytes(sum)
}

// FindProgramAddress walks the bump seed down from 255 and returns the first
// off-curve address together with the bump that produced it. Callers persist
// the bump so later signing does not need the search again.
func FindProgramAddress(seeds [][]byte, programID Address) (Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return ZeroAddress, 0, ErrTooManySeeds
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrInvalidSeeds) {
			return ZeroAddress, 0, err
		}
	}
	return ZeroAddress, 0, ErrNoViableBump
}

// IsOnCurve reports whether b decodes to a point on the ed25519 curve.
func IsOnCurve(b []byte) bool {
	if len(b) != AddressLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
