// Package storetest holds the behaviour every sdk.Store substrate must share.
// Substrate packages call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"dao_voting/sdk"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = sdk.NewProgramID("storetest-owner")
	keyA  = sdk.NewProgramID("storetest-a")
	keyB  = sdk.NewProgramID("storetest-b")

	errBoom = errors.New("boom")
)

// Run executes the shared suite against stores made by newStore.
func Run(t *testing.T, newStore func(t *testing.T) sdk.Store) {
	t.Run("CreateGetPut", func(t *testing.T) { testCreateGetPut(t, newStore(t)) })
	t.Run("Rollback", func(t *testing.T) { testRollback(t, newStore(t)) })
	t.Run("SpaceAndExistence", func(t *testing.T) { testSpaceAndExistence(t, newStore(t)) })
	t.Run("ViewIsReadOnly", func(t *testing.T) { testViewIsReadOnly(t, newStore(t)) })
	t.Run("SerializedCounter", func(t *testing.T) { testSerializedCounter(t, newStore(t)) })
}

func get(t *testing.T, s sdk.Store, key sdk.Address) *sdk.Record {
	t.Helper()
	var rec *sdk.Record
	require.NoError(t, s.View(context.Background(), func(st sdk.State) error {
		var err error
		rec, err = st.Get(key)
		return err
	}))
	return rec
}

func testCreateGetPut(t *testing.T, s sdk.Store) {
	ctx := context.Background()
	assert.Nil(t, get(t, s, keyA))

	require.NoError(t, s.Update(ctx, func(st sdk.State) error {
		if err := st.Create(keyA, owner, 4, []byte{1, 2}); err != nil {
			return err
		}
		// reads inside the same update see the pending write
		rec, err := st.Get(keyA)
		if err != nil {
			return err
		}
		if rec == nil || rec.Space != 4 {
			return errors.New("pending create not visible")
		}
		return st.Put(keyA, []byte{9, 9, 9, 9})
	}))

	rec := get(t, s, keyA)
	require.NotNil(t, rec)
	assert.Equal(t, owner, rec.Owner)
	assert.EqualValues(t, 4, rec.Space)
	assert.Equal(t, []byte{9, 9, 9, 9}, rec.Data)
}

func testRollback(t *testing.T, s sdk.Store) {
	ctx := context.Background()
	require.NoError(t, s.Update(ctx, func(st sdk.State) error {
		return st.Create(keyA, owner, 8, []byte{1})
	}))

	err := s.Update(ctx, func(st sdk.State) error {
		if err := st.Put(keyA, []byte{2}); err != nil {
			return err
		}
		if err := st.Create(keyB, owner, 8, []byte{3}); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	assert.Equal(t, []byte{1}, get(t, s, keyA).Data)
	assert.Nil(t, get(t, s, keyB))
}

func testSpaceAndExistence(t *testing.T, s sdk.Store) {
	ctx := context.Background()
	err := s.Update(ctx, func(st sdk.State) error {
		return st.Create(keyA, owner, 2, []byte{1, 2, 3})
	})
	assert.ErrorIs(t, err, sdk.ErrSpaceExceeded)

	require.NoError(t, s.Update(ctx, func(st sdk.State) error {
		return st.Create(keyA, owner, 2, []byte{1})
	}))
	err = s.Update(ctx, func(st sdk.State) error {
		return st.Create(keyA, owner, 2, []byte{1})
	})
	assert.ErrorIs(t, err, sdk.ErrRecordExists)
	err = s.Update(ctx, func(st sdk.State) error {
		return st.Put(keyA, []byte{1, 2, 3})
	})
	assert.ErrorIs(t, err, sdk.ErrSpaceExceeded)
	err = s.Update(ctx, func(st sdk.State) error {
		return st.Put(keyB, []byte{1})
	})
	assert.ErrorIs(t, err, sdk.ErrRecordNotFound)
}

func testViewIsReadOnly(t *testing.T, s sdk.Store) {
	err := s.View(context.Background(), func(st sdk.State) error {
		return st.Create(keyA, owner, 1, nil)
	})
	assert.ErrorIs(t, err, sdk.ErrReadOnly)
	assert.Nil(t, get(t, s, keyA))
}

// testSerializedCounter does read-modify-write from many goroutines; a lost
// update shows up as a short count.
func testSerializedCounter(t *testing.T, s sdk.Store) {
	ctx := context.Background()
	require.NoError(t, s.Update(ctx, func(st sdk.State) error {
		return st.Create(keyA, owner, 1, []byte{0})
	}))

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Update(ctx, func(st sdk.State) error {
				rec, err := st.Get(keyA)
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("counter missing")
				}
				return st.Put(keyA, []byte{rec.Data[0] + 1})
			}))
		}()
	}
	wg.Wait()
	assert.Equal(t, []byte{n}, get(t, s, keyA).Data)
}
