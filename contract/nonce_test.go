package contract_test

import (
	"testing"

	"dao_voting/contract"
	"dao_voting/contract/dao"
	"dao_voting/sdk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Request Nonce Tests
// =============================================================================

// TestNonceSpentOnce checks the same signer and nonce commit only one fund.
func TestNonceSpentOnce(t *testing.T) {
	ct := SetupContractTest(t)
	ct.mintTo(ct.admin.Address(), 3*reward)
	ctx := contract.WithNonce(ct.ctx, ct.admin.Address(), 7)

	_, err := ct.prog.FundVault(ctx, ct.admin.Signer(), reward)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = ct.prog.FundVault(ctx, ct.admin.Signer(), reward)
		assert.ErrorIs(t, err, contract.ErrNonceUsed)
	}
	assert.Equal(t, reward, ct.vaultBalance())
	assert.Equal(t, 2*reward, ct.balance(ct.admin.Address()))

	used, err := ct.prog.NonceUsed(ct.ctx, ct.admin.Address(), 7)
	require.NoError(t, err)
	assert.True(t, used)

	// the marker is keyed per signer, so another signer may use 7 too
	other := keypair("other")
	ct.mintTo(other.Address(), reward)
	_, err = ct.prog.FundVault(contract.WithNonce(ct.ctx, other.Address(), 7), other.Signer(), reward)
	require.NoError(t, err)
	assert.Equal(t, 2*reward, ct.vaultBalance())

	addr, err := ct.prog.NonceAddress(other.Address(), 7)
	require.NoError(t, err)
	rec := ct.record(addr)
	require.NotNil(t, rec)
	assert.EqualValues(t, dao.NonceSpace, rec.Space)
	signer, nonce, err := dao.DecodeNonce(rec.Data)
	require.NoError(t, err)
	assert.Equal(t, other.Address(), signer)
	assert.EqualValues(t, 7, nonce)
}

// TestNonceRolledBackWithInstruction checks a failed instruction leaves its
// nonce unspent so the signer can retry with it.
func TestNonceRolledBackWithInstruction(t *testing.T) {
	ct := SetupContractTest(t)
	voter := keypair("voter")
	prop := ct.propose(ct.admin, "retry me")
	ctx := contract.WithNonce(ct.ctx, voter.Address(), 1)

	_, err := ct.prog.Vote(ctx, voter.Signer(), prop, true)
	assert.ErrorIs(t, err, contract.ErrInsufficientVaultBalance)
	used, err := ct.prog.NonceUsed(ct.ctx, voter.Address(), 1)
	require.NoError(t, err)
	assert.False(t, used)

	ct.fundVault(reward)
	_, err = ct.prog.Vote(ctx, voter.Signer(), prop, true)
	require.NoError(t, err)
	used, err = ct.prog.NonceUsed(ct.ctx, voter.Address(), 1)
	require.NoError(t, err)
	assert.True(t, used)
}

// TestBallotWithWrongSpace checks a foreign-sized record at a ballot slot is rejected.
func TestBallotWithWrongSpace(t *testing.T) {
	ct := SetupContractTest(t)
	voter := keypair("voter")
	prop := ct.propose(ct.admin, "odd ballot")
	addr, err := ct.prog.BallotAddress(prop, voter.Address())
	require.NoError(t, err)

	data := dao.EncodeBallot(&dao.Ballot{Proposal: prop, Voter: voter.Address(), VoteFor: true})
	require.NoError(t, ct.store.Update(ct.ctx, func(st sdk.State) error {
		return st.Create(addr, ct.prog.ProgramID(), dao.BallotSpace+8, data)
	}))

	_, err = ct.prog.Ballot(ct.ctx, prop, voter.Address())
	assert.ErrorIs(t, err, contract.ErrInvalidAccount)
}
