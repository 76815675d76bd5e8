package kvstore_test

import (
	"context"
	"testing"

	"dao_voting/sdk"
	"dao_voting/store/kvstore"
	"dao_voting/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
)

func TestKVStoreMemDB(t *testing.T) {
	storetest.Run(t, func(t *testing.T) sdk.Store { return kvstore.New(dbm.NewMemDB()) })
}

func TestKVStoreGoLevelDB(t *testing.T) {
	storetest.Run(t, func(t *testing.T) sdk.Store {
		s, err := kvstore.Open("records", t.TempDir())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

// TestReopen makes sure records written through one handle are there after reopening the dir.
func TestReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := sdk.NewProgramID("kv-key")

	s, err := kvstore.Open("records", dir)
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, func(st sdk.State) error {
		return st.Create(key, key, 2, []byte{7, 7})
	}))
	require.NoError(t, s.Close())

	s, err = kvstore.Open("records", dir)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.View(ctx, func(st sdk.State) error {
		rec, err := st.Get(key)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, []byte{7, 7}, rec.Data)
		return nil
	}))
}
