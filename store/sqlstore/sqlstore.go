// Package sqlstore keeps records in a SQL table through gorm. Every Update is
// one database transaction, so a failed instruction leaves no rows behind.
package sqlstore

import (
	"context"
	"database/sql"
	"sync"

	"dao_voting/internal/models"
	"dao_voting/sdk"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	mu sync.Mutex
	db *gorm.DB
}

var _ sdk.Store = (*Store)(nil)

// New wraps an opened and migrated gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Update serializes writers in-process and takes row locks inside the
// transaction for other processes sharing the database.
func (s *Store) Update(ctx context.Context, fn func(sdk.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txState{tx: tx, lock: true})
	})
}

// View runs fn in a read-only transaction so multi-record reads see one snapshot.
func (s *Store) View(ctx context.Context, fn func(sdk.State) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txState{tx: tx, readOnly: true})
	}, &sql.TxOptions{ReadOnly: true})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type txState struct {
	tx       *gorm.DB
	lock     bool
	readOnly bool
}

func (t *txState) load(key sdk.Address) (*models.Record, error) {
	q := t.tx
	if t.lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []models.Record
	if err := q.Where("address = ?", key.Bytes()).Limit(1).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "select record")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (t *txState) Get(key sdk.Address) (*sdk.Record, error) {
	row, err := t.load(key)
	if err != nil || row == nil {
		return nil, err
	}
	owner, err := sdk.AddressFromBytes(row.Owner)
	if err != nil {
		return nil, errors.Wrapf(err, "owner of %s", key)
	}
	return &sdk.Record{Owner: owner, Space: row.Space, Data: row.Data}, nil
}

func (t *txState) Create(key sdk.Address, owner sdk.Address, space uint32, data []byte) error {
	if t.readOnly {
		return sdk.ErrReadOnly
	}
	if err := sdk.CheckSpace(space, data); err != nil {
		return err
	}
	existing, err := t.load(key)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.Wrapf(sdk.ErrRecordExists, "address %s", key)
	}
	row := &models.Record{
		Address: key.Bytes(),
		Owner:   owner.Bytes(),
		Space:   space,
		Data:    append([]byte{}, data...),
	}
	return errors.Wrap(t.tx.Create(row).Error, "insert record")
}

func (t *txState) Put(key sdk.Address, data []byte) error {
	if t.readOnly {
		return sdk.ErrReadOnly
	}
	existing, err := t.load(key)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.Wrapf(sdk.ErrRecordNotFound, "address %s", key)
	}
	if err := sdk.CheckSpace(existing.Space, data); err != nil {
		return err
	}
	res := t.tx.Model(&models.Record{}).
		Where("address = ?", key.Bytes()).
		Update("data", append([]byte{}, data...))
	return errors.Wrap(res.Error, "update record")
}
