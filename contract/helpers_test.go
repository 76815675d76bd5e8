package contract_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"dao_voting/contract"
	"dao_voting/sdk"
	"dao_voting/store/memstore"
	"dao_voting/token"

	"github.com/stretchr/testify/require"
)

const reward uint64 = 10_000_000

// contractTest bundles a program, its store and the admin that owns the mint.
type contractTest struct {
	t     *testing.T
	ctx   context.Context
	store sdk.Store
	prog  *contract.Program
	admin *sdk.Keypair
	mint  sdk.Address
}

// SetupContractTest spins up an initialized program on a fresh memory store.
func SetupContractTest(t *testing.T, opts ...func(*contract.Options)) *contractTest {
	return setupContractTestOn(t, memstore.New(), opts...)
}

// setupContractTestOn does the same against any store so substrates share the scenarios.
func setupContractTestOn(t *testing.T, store sdk.Store, opts ...func(*contract.Options)) *contractTest {
	t.Helper()
	ct := newUninitialized(t, store, opts...)
	_, err := ct.prog.Initialize(ct.ctx, ct.admin.Signer(), ct.mint)
	require.NoError(t, err)
	return ct
}

// newUninitialized creates the mint and program but skips Initialize.
func newUninitialized(t *testing.T, store sdk.Store, opts ...func(*contract.Options)) *contractTest {
	t.Helper()
	o := contract.DefaultOptions()
	o.RewardAmount = reward
	for _, fn := range opts {
		fn(&o)
	}
	prog, err := contract.New(store, o)
	require.NoError(t, err)

	ct := &contractTest{
		t:     t,
		ctx:   context.Background(),
		store: store,
		prog:  prog,
		admin: keypair("admin"),
	}
	ct.mint, err = token.DeriveMintAddress(ct.admin.Address(), "vote-reward")
	require.NoError(t, err)
	require.NoError(t, store.Update(ct.ctx, func(st sdk.State) error {
		rec, err := st.Get(ct.mint)
		if err != nil || rec != nil {
			return err
		}
		return token.InitializeMint(st, ct.mint, ct.admin.Address(), 6)
	}))
	return ct
}

func keypair(name string) *sdk.Keypair {
	return sdk.KeypairFromSecret([]byte(name))
}

// voters returns n deterministic keypairs.
func voters(n int) []*sdk.Keypair {
	out := make([]*sdk.Keypair, n)
	for i := range out {
		out[i] = keypair(fmt.Sprintf("voter-%d", i))
	}
	return out
}

// mintTo gives owner amount tokens in their associated account.
func (ct *contractTest) mintTo(owner sdk.Address, amount uint64) {
	ct.t.Helper()
	require.NoError(ct.t, ct.store.Update(ct.ctx, func(st sdk.State) error {
		acc, _, err := token.CreateAssociatedAccount(st, owner, ct.mint)
		if err != nil {
			return err
		}
		return token.MintTo(st, ct.mint, acc, ct.admin.Signer(), amount)
	}))
}

// fundVault mints to the admin and moves it into the vault.
func (ct *contractTest) fundVault(amount uint64) {
	ct.t.Helper()
	ct.mintTo(ct.admin.Address(), amount)
	_, err := ct.prog.FundVault(ct.ctx, ct.admin.Signer(), amount)
	require.NoError(ct.t, err)
}

func (ct *contractTest) propose(creator *sdk.Keypair, description string) sdk.Address {
	ct.t.Helper()
	res, err := ct.prog.CreateProposal(ct.ctx, creator.Signer(), description)
	require.NoError(ct.t, err)
	return res.Proposal
}

func (ct *contractTest) vote(voter *sdk.Keypair, proposal sdk.Address, voteFor bool) error {
	_, err := ct.prog.Vote(ct.ctx, voter.Signer(), proposal, voteFor)
	return err
}

func (ct *contractTest) tally(proposal sdk.Address) (uint64, uint64) {
	ct.t.Helper()
	info, err := ct.prog.Proposal(ct.ctx, proposal)
	require.NoError(ct.t, err)
	return info.Proposal.VotesFor, info.Proposal.VotesAgainst
}

func (ct *contractTest) balance(owner sdk.Address) uint64 {
	ct.t.Helper()
	bal, err := ct.prog.TokenBalance(ct.ctx, owner)
	require.NoError(ct.t, err)
	return bal
}

func (ct *contractTest) vaultBalance() uint64 {
	ct.t.Helper()
	bal, err := ct.prog.VaultBalance(ct.ctx)
	require.NoError(ct.t, err)
	return bal
}

// record peeks at the raw record at addr, nil when missing.
func (ct *contractTest) record(addr sdk.Address) *sdk.Record {
	ct.t.Helper()
	var rec *sdk.Record
	require.NoError(ct.t, ct.store.View(ct.ctx, func(st sdk.State) error {
		var err error
		rec, err = st.Get(addr)
		return err
	}))
	return rec
}

func itoa(v uint64) string { return strconv.FormatUint(v, 10) }
