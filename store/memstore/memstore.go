// Package memstore keeps every record in a map, optionally mirrored to a JSON
// snapshot file after each committed update.
package memstore

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"dao_voting/sdk"
	"dao_voting/store"

	"github.com/pkg/errors"
)

type Store struct {
	mu       sync.RWMutex
	db       map[sdk.Address]*sdk.Record
	filename string
}

var _ sdk.Store = (*Store)(nil)

// New returns an empty store without persistence.
func New() *Store {
	return &Store{db: make(map[sdk.Address]*sdk.Record)}
}

// Open returns a store mirrored to filename, loading it first when it exists.
func Open(filename string) (*Store, error) {
	s := New()
	s.filename = filename
	if err := s.loadFromFile(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) get(key sdk.Address) (*sdk.Record, error) {
	rec, ok := s.db[key]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

// Update runs fn against a buffer and only applies it when fn succeeds. The
// write lock is held for the whole call, which is what serializes instructions.
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
	prev := make(map[sdk.Address]*sdk.Record, len(writes))
	for _, w := range writes {
		if _, seen := prev[w.Key]; !seen {
			prev[w.Key] = s.db[w.Key]
		}
		s.db[w.Key] = w.Record
	}
	if s.filename == "" {
		return nil
	}
	if err := s.saveToFile(); err != nil {
		// memory must not get ahead of the snapshot
		for key, rec := range prev {
			if rec == nil {
				delete(s.db, key)
			} else {
				s.db[key] = rec
			}
		}
		return err
	}
	return nil
}

func (s *Store) View(ctx context.Context, fn func(sdk.State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(store.NewReadOnly(s.get))
}

func (s *Store) Close() error { return nil }

// Len is mostly for tests that want to prove nothing was written.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.db)
}

type snapshotRecord struct {
	Owner string `json:"owner"`
	Space uint32 `json:"space"`
	Data  []byte `json:"data"`
}

// saveToFile writes the full map to the snapshot file. A temp file plus rename
// keeps a crash from leaving half a snapshot behind.
func (s *Store) saveToFile() error {
	out := make(map[string]snapshotRecord, len(s.db))
	for key, rec := range s.db {
		out[key.String()] = snapshotRecord{Owner: rec.Owner.String(), Space: rec.Space, Data: rec.Data}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	tmp := s.filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	return errors.Wrap(os.Rename(tmp, s.filename), "replace snapshot")
}

// loadFromFile loads the map from the snapshot file, a missing file is an empty store.
func (s *Store) loadFromFile() error {
	data, err := os.ReadFile(s.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "read snapshot")
	}
	var in map[string]snapshotRecord
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(err, "decode snapshot")
	}
	for k, v := range in {
		key, err := sdk.AddressFromString(k)
		if err != nil {
			return errors.Wrapf(err, "snapshot key %q", k)
		}
		owner, err := sdk.AddressFromString(v.Owner)
		if err != nil {
			return errors.Wrapf(err, "snapshot owner of %q", k)
		}
		s.db[key] = &sdk.Record{Owner: owner, Space: v.Space, Data: v.Data}
	}
	return nil
}
