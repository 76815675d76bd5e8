package sdk

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrRecordExists is returned by Create when the address is taken. This is
	// what makes "initialize once" and "vote once" hold.
	ErrRecordExists = errors.New("record already exists")
	// ErrRecordNotFound is returned by Put for addresses that were never created.
	ErrRecordNotFound = errors.New("record not found")
	// ErrSpaceExceeded is returned when data does not fit the space declared at creation.
	ErrSpaceExceeded = errors.New("record data exceeds allocated space")
	// ErrReadOnly is returned by writes inside a View.
	ErrReadOnly = errors.New("state is read-only")
)

// Record is one persistent account: the program that owns it, the byte budget
// reserved when it was created and its current data.
type Record struct {
	Owner Address
	Space uint32
	Data  []byte
}

// Clone deep-copies the record so buffered writes never alias caller slices.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	data := make([]byte, len(r.Data))
	copy(data, r.Data)
	return &Record{Owner: r.Owner, Space: r.Space, Data: data}
}

// State is the keyed storage a single instruction sees.
type State interface {
	// Get returns nil, nil when nothing lives at key.
	Get(key Address) (*Record, error)
	// Create allocates a new record with a fixed space; fails with ErrRecordExists.
	Create(key Address, owner Address, space uint32, data []byte) error
	// Put overwrites the data of an existing record within its space.
	Put(key Address, data []byte) error
}

// Store runs instructions. Update applies fn atomically: either every write
// done through the State lands or none does. Update calls never interleave.
type Store interface {
	Update(ctx context.Context, fn func(State) error) error
	View(ctx context.Context, fn func(State) error) error
	Close() error
}

// CheckSpace validates data against a record budget.
func CheckSpace(space uint32, data []byte) error {
	if uint64(len(data)) > uint64(space) {
		return errors.Wrapf(ErrSpaceExceeded, "%d > %d bytes", len(data), space)
	}
	return nil
}
