package contract_test

import (
	"bytes"
	"testing"

	"dao_voting/contract"
	"dao_voting/internal/logger"
	"dao_voting/sdk"
	"dao_voting/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Initialization Tests
// =============================================================================

// TestInitialize checks the registry setup flow so we dont break it again.
func TestInitialize(t *testing.T) {
	ct := newUninitialized(t, memstore.New())

	res, err := ct.prog.Initialize(ct.ctx, ct.admin.Signer(), ct.mint)
	require.NoError(t, err)
	assert.Equal(t, ct.prog.RegistryAddress(), res.Registry)
	assert.Equal(t, ct.admin.Address(), res.Authority)
	assert.NotEmpty(t, res.TxID)
	require.Len(t, res.Logs, 1)
	assert.Contains(t, res.Logs[0], "ri|by:"+ct.admin.Address().String())

	assert.False(t, sdk.IsOnCurve(res.Registry.Bytes()))

	info, err := ct.prog.Registry(ct.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, info.Registry.ProposalCount)
	assert.Equal(t, ct.mint, info.Registry.Mint)
	assert.Equal(t, res.Vault, info.Registry.Vault)
	assert.EqualValues(t, 0, info.VaultBalance)

	_, err = ct.prog.Initialize(ct.ctx, keypair("someoneelse").Signer(), ct.mint)
	assert.ErrorIs(t, err, contract.ErrAlreadyInitialized)
}

func TestNotInitialized(t *testing.T) {
	ct := newUninitialized(t, memstore.New())

	_, err := ct.prog.CreateProposal(ct.ctx, ct.admin.Signer(), "too early")
	assert.ErrorIs(t, err, contract.ErrNotInitialized)
	_, err = ct.prog.Registry(ct.ctx)
	assert.ErrorIs(t, err, contract.ErrNotInitialized)
}

func TestInitializeUnknownMint(t *testing.T) {
	ct := newUninitialized(t, memstore.New())

	_, err := ct.prog.Initialize(ct.ctx, ct.admin.Signer(), sdk.NewProgramID("not-a-mint"))
	assert.ErrorIs(t, err, contract.ErrInvalidAccount)

	// nothing was written, so a proper init still works
	_, err = ct.prog.Initialize(ct.ctx, ct.admin.Signer(), ct.mint)
	assert.NoError(t, err)
}

// TestProgramsAreIsolated makes sure two program ids on one store never share a registry.
func TestProgramsAreIsolated(t *testing.T) {
	store := memstore.New()
	a := setupContractTestOn(t, store)
	b := setupContractTestOn(t, store, func(o *contract.Options) {
		o.ProgramID = sdk.NewProgramID("other-dao")
	})
	assert.NotEqual(t, a.prog.RegistryAddress(), b.prog.RegistryAddress())

	a.propose(a.admin, "only in a")
	infoB, err := b.prog.Registry(b.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, infoB.Registry.ProposalCount)
}

func TestErrorCodes(t *testing.T) {
	ct := SetupContractTest(t)
	_, err := ct.prog.Initialize(ct.ctx, ct.admin.Signer(), ct.mint)
	e, ok := contract.AsError(err)
	require.True(t, ok)
	assert.EqualValues(t, 6000, e.Code)
	assert.Equal(t, "AlreadyInitialized", e.Symbol)
}

// TestEventsLoggedAfterCommit makes sure rejected instructions never leak event lines.
func TestEventsLoggedAfterCommit(t *testing.T) {
	var buf bytes.Buffer
	ct := SetupContractTest(t, func(o *contract.Options) {
		o.Logger = logger.NewWithWriter("info", "json", &buf)
	})
	prop := ct.propose(ct.admin, "logged")
	assert.Contains(t, buf.String(), `"message":"pc|id:0|by:`+ct.admin.Address().String())

	buf.Reset()
	// vault is empty so the vote rolls back
	assert.ErrorIs(t, ct.vote(keypair("v"), prop, true), contract.ErrInsufficientVaultBalance)
	assert.NotContains(t, buf.String(), "v|id:0")
	assert.NotContains(t, buf.String(), "ra|")
}
