// Package kvstore persists records in a tm-db key/value database (goleveldb on
// disk). One committed update is one batch write.
package kvstore

import (
	"context"
	"sync"

	"dao_voting/sdk"
	"dao_voting/store"

	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
)

// recordPrefix keeps records apart from anything else sharing the database.
const recordPrefix byte = 0x01

type Store struct {
	mu sync.RWMutex
	db dbm.DB
}

var _ sdk.Store = (*Store)(nil)

// Open creates or opens a goleveldb database named name under dir.
func Open(name, dir string) (*Store, error) {
	db, err := dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %s in %s", name, dir)
	}
	return New(db), nil
}

// New wraps an already opened database, e.g. dbm.NewMemDB() in tests.
func New(db dbm.DB) *Store {
	return &Store{db: db}
}

func recordKey(key sdk.Address) []byte {
	out := make([]byte, 0, 1+sdk.AddressLength)
	out = append(out, recordPrefix)
	return append(out, key[:]...)
}

func (s *Store) get(key sdk.Address) (*sdk.Record, error) {
	raw, err := s.db.Get(recordKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "leveldb get")
	}
	if raw == nil {
		return nil, nil
	}
	return store.DecodeRecord(raw)
}

func (s *Store) Update(ctx context.Context, fn func(sdk.State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := store.NewBuffer(s.get)
	if err := fn(buf); err != nil {
		return err
	}
	writes := buf.Writes()
	if len(writes) == 0 {
		return nil
	}
	batch := s.db.NewBatch()
	defer batch.Close()
	for _, w := range writes {
		if err := batch.Set(recordKey(w.Key), store.EncodeRecord(w.Record)); err != nil {
			return errors.Wrap(err, "batch set")
		}
	}
	return errors.Wrap(batch.WriteSync(), "batch write")
}

func (s *Store) View(ctx context.Context, fn func(sdk.State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(store.NewReadOnly(s.get))
}

func (s *Store) Close() error {
	return s.db.Close()
}
