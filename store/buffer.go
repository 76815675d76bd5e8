// Package store holds the pieces shared by every storage substrate: the
// write-set buffer that gives instructions all-or-nothing semantics, and the
// record encoding used by the byte-oriented backends.
package store

import (
	"dao_voting/sdk"

	"github.com/pkg/errors"
)

// ReadFunc loads a committed record; nil, nil when missing.
type ReadFunc func(key sdk.Address) (*sdk.Record, error)

// Write is one buffered change, in the order the instruction made it.
type Write struct {
	Key     sdk.Address
	Record  *sdk.Record
	Created bool
}

// Buffer overlays pending writes on top of committed state. Nothing reaches
// the backend until the owner commits Writes(), so dropping a Buffer is the
// rollback.
type Buffer struct {
	read     ReadFunc
	readOnly bool
	pending  map[sdk.Address]*Write
	order    []sdk.Address
}

// NewBuffer opens a writable overlay.
func NewBuffer(read ReadFunc) *Buffer {
	return &Buffer{read: read, pending: map[sdk.Address]*Write{}}
}

// NewReadOnly opens an overlay that rejects writes.
func NewReadOnly(read ReadFunc) *Buffer {
	b := NewBuffer(read)
	b.readOnly = true
	return b
}

// Get prefers pending writes and hands out copies either way.
func (b *Buffer) Get(key sdk.Address) (*sdk.Record, error) {
	if w, ok := b.pending[key]; ok {
		return w.Record.Clone(), nil
	}
	rec, err := b.read(key)
	if err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// Create allocates key unless it already exists in pending or committed state.
func (b *Buffer) Create(key sdk.Address, owner sdk.Address, space uint32, data []byte) error {
	if b.readOnly {
		return sdk.ErrReadOnly
	}
	if err := sdk.CheckSpace(space, data); err != nil {
		return err
	}
	existing, err := b.Get(key)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.Wrapf(sdk.ErrRecordExists, "address %s", key)
	}
	rec := &sdk.Record{Owner: owner, Space: space, Data: data}
	b.pending[key] = &Write{Key: key, Record: rec.Clone(), Created: true}
	b.order = append(b.order, key)
	return nil
}

// Put rewrites data of an existing record, keeping owner and space.
func (b *Buffer) Put(key sdk.Address, data []byte) error {
	if b.readOnly {
		return sdk.ErrReadOnly
	}
	if w, ok := b.pending[key]; ok {
		if err := sdk.CheckSpace(w.Record.Space, data); err != nil {
			return err
		}
		w.Record = (&sdk.Record{Owner: w.Record.Owner, Space: w.Record.Space, Data: data}).Clone()
		return nil
	}
	existing, err := b.read(key)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.Wrapf(sdk.ErrRecordNotFound, "address %s", key)
	}
	if err := sdk.CheckSpace(existing.Space, data); err != nil {
		return err
	}
	rec := &sdk.Record{Owner: existing.Owner, Space: existing.Space, Data: data}
	b.pending[key] = &Write{Key: key, Record: rec.Clone()}
	b.order = append(b.order, key)
	return nil
}

// Writes lists buffered changes in first-touch order.
func (b *Buffer) Writes() []*Write {
	out := make([]*Write, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, b.pending[key])
	}
	return out
}
