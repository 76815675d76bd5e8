package sqlstore_test

import (
	"context"
	"encoding/binary"
	"path/filepath"
	"testing"

	"dao_voting/internal/models"
	"dao_voting/sdk"
	"dao_voting/store/sqlstore"
	"dao_voting/store/storetest"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openSQLite gives every test its own database file; busy_timeout keeps the
// pool from failing fast while another connection holds the write lock.
func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "records.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Record{}))
	return db
}

func TestSQLStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) sdk.Store {
		s := sqlstore.New(openSQLite(t))
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

// TestViewSeesOneSnapshot moves units between two records while readers check
// the total never changes inside a single View.
func TestViewSeesOneSnapshot(t *testing.T) {
	ctx := context.Background()
	s := sqlstore.New(openSQLite(t))
	t.Cleanup(func() { _ = s.Close() })

	owner := sdk.NewProgramID("snapshot-owner")
	a, b := sdk.NewProgramID("snapshot-a"), sdk.NewProgramID("snapshot-b")
	const total = 100
	require.NoError(t, s.Update(ctx, func(st sdk.State) error {
		if err := st.Create(a, owner, 8, u64(total)); err != nil {
			return err
		}
		return st.Create(b, owner, 8, u64(0))
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 40; i++ {
			err := s.Update(ctx, func(st sdk.State) error {
				ra, err := st.Get(a)
				if err != nil {
					return err
				}
				rb, err := st.Get(b)
				if err != nil {
					return err
				}
				if err := st.Put(a, u64(binary.LittleEndian.Uint64(ra.Data)-1)); err != nil {
					return err
				}
				return st.Put(b, u64(binary.LittleEndian.Uint64(rb.Data)+1))
			})
			if err != nil {
				t.Errorf("transfer %d: %v", i, err)
				return
			}
		}
	}()

	for reading := true; reading; {
		select {
		case <-done:
			reading = false
		default:
		}
		require.NoError(t, s.View(ctx, func(st sdk.State) error {
			ra, err := st.Get(a)
			if err != nil {
				return err
			}
			rb, err := st.Get(b)
			if err != nil {
				return err
			}
			assert.EqualValues(t, total, binary.LittleEndian.Uint64(ra.Data)+binary.LittleEndian.Uint64(rb.Data))
			return nil
		}))
	}
}

func u64(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}
