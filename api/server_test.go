package api_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"dao_voting/api"
	"dao_voting/contract"
	"dao_voting/internal/logger"
	"dao_voting/sdk"
	"dao_voting/store/memstore"
	"dao_voting/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const reward uint64 = 10_000_000

type apiTest struct {
	t     *testing.T
	srv   *httptest.Server
	prog  *contract.Program
	store *memstore.Store
	admin *sdk.Keypair
	mint  sdk.Address
	nonce uint64
}

// setupAPITest creates a mint directly in the store and serves a program over httptest.
func setupAPITest(t *testing.T) *apiTest {
	t.Helper()
	st := memstore.New()
	opts := contract.DefaultOptions()
	opts.RewardAmount = reward
	prog, err := contract.New(st, opts)
	require.NoError(t, err)

	at := &apiTest{t: t, prog: prog, store: st, admin: sdk.KeypairFromSecret([]byte("admin"))}
	at.mint, err = token.DeriveMintAddress(at.admin.Address(), "reward")
	require.NoError(t, err)
	require.NoError(t, st.Update(context.Background(), func(s sdk.State) error {
		if err := token.InitializeMint(s, at.mint, at.admin.Address(), 6); err != nil {
			return err
		}
		acc, _, err := token.CreateAssociatedAccount(s, at.admin.Address(), at.mint)
		if err != nil {
			return err
		}
		return token.MintTo(s, at.mint, acc, at.admin.Signer(), 100*reward)
	}))

	at.srv = httptest.NewServer(api.NewServer(prog, logger.Nop()))
	t.Cleanup(at.srv.Close)
	return at
}

func (at *apiTest) get(path string) (int, gjson.Result) {
	at.t.Helper()
	resp, err := http.Get(at.srv.URL + path)
	require.NoError(at.t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(at.t, err)
	return resp.StatusCode, gjson.ParseBytes(buf.Bytes())
}

func (at *apiTest) postRaw(path string, body []byte) (int, gjson.Result) {
	at.t.Helper()
	resp, err := http.Post(at.srv.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(at.t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(at.t, err)
	require.True(at.t, gjson.ValidBytes(buf.Bytes()), buf.String())
	return resp.StatusCode, gjson.ParseBytes(buf.Bytes())
}

// post signs payload for action on target and sends it.
func (at *apiTest) post(kp *sdk.Keypair, path, action string, target sdk.Address, payload string) (int, gjson.Result) {
	at.t.Helper()
	return at.postRaw(path, at.sign(kp, action, target, payload))
}

// sign returns a request body under a fresh nonce.
func (at *apiTest) sign(kp *sdk.Keypair, action string, target sdk.Address, payload string) []byte {
	at.t.Helper()
	at.nonce++
	req, err := api.Sign(kp, action, at.prog.ProgramID(), target, at.nonce, payload)
	require.NoError(at.t, err)
	body, err := req.Marshal()
	require.NoError(at.t, err)
	return body
}

func (at *apiTest) initialize() {
	at.t.Helper()
	status, res := at.post(at.admin, "/registry", api.ActionInitialize, at.prog.RegistryAddress(), at.mint.String())
	require.Equal(at.t, http.StatusCreated, status, res.Raw)
	status, res = at.post(at.admin, "/vault/fund", api.ActionFundVault, at.prog.RegistryAddress(), strconv.FormatUint(10*reward, 10))
	require.Equal(at.t, http.StatusOK, status, res.Raw)
}

func (at *apiTest) propose(kp *sdk.Keypair, desc string) sdk.Address {
	at.t.Helper()
	status, res := at.post(kp, "/proposals", api.ActionCreateProposal, at.prog.RegistryAddress(), desc)
	require.Equal(at.t, http.StatusCreated, status, res.Raw)
	return sdk.MustAddress(res.Get("proposal").String())
}

// TestAPIFlow walks initialize, propose, vote, close over http so we dont break it again.
func TestAPIFlow(t *testing.T) {
	at := setupAPITest(t)
	at.initialize()

	status, reg := at.get("/registry")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, at.admin.Address().String(), reg.Get("authority").String())
	assert.EqualValues(t, 10*reward, reg.Get("vault_balance").Uint())

	prop := at.propose(at.admin, "pay the auditors")
	voter := sdk.KeypairFromSecret([]byte("voter"))

	status, res := at.post(voter, "/proposals/"+prop.String()+"/votes", api.ActionVote, prop, "1")
	require.Equal(t, http.StatusOK, status, res.Raw)
	assert.EqualValues(t, 1, res.Get("votes_for").Uint())
	assert.EqualValues(t, reward, res.Get("reward").Uint())
	assert.NotEmpty(t, res.Get("tx_id").String())

	status, res = at.post(voter, "/proposals/"+prop.String()+"/votes", api.ActionVote, prop, "0")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "AlreadyVoted", res.Get("symbol").String())
	assert.EqualValues(t, 6005, res.Get("code").Uint())

	status, res = at.get("/proposals/0")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, prop.String(), res.Get("address").String())
	assert.Equal(t, "pay the auditors", res.Get("description").String())

	status, res = at.get("/proposals/" + prop.String() + "/ballots/" + voter.Address().String())
	require.Equal(t, http.StatusOK, status)
	assert.True(t, res.Get("vote_for").Bool())

	status, res = at.get("/accounts/" + voter.Address().String() + "/balance")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, reward, res.Get("balance").Uint())

	status, res = at.post(voter, "/proposals/"+prop.String()+"/close", api.ActionCloseProposal, prop, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Unauthorized", res.Get("symbol").String())

	status, res = at.post(at.admin, "/proposals/"+prop.String()+"/close", api.ActionCloseProposal, prop, "")
	require.Equal(t, http.StatusOK, status, res.Raw)

	status, res = at.get("/proposals")
	require.Equal(t, http.StatusOK, status)
	list := res.Get("proposals").Array()
	require.Len(t, list, 1)
	assert.Equal(t, "closed", list[0].Get("state").String())
	assert.EqualValues(t, 1, list[0].Get("votes_for").Uint())
}

func TestBadSignature(t *testing.T) {
	at := setupAPITest(t)
	at.initialize()
	prop := at.propose(at.admin, "sig check")
	voter := sdk.KeypairFromSecret([]byte("voter"))

	// signed for another proposal
	other := sdk.NewProgramID("elsewhere")
	status, res := at.post(voter, "/proposals/"+prop.String()+"/votes", api.ActionVote, other, "1")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", res.Get("symbol").String())

	// signed as a close, sent as a vote
	status, _ = at.post(voter, "/proposals/"+prop.String()+"/votes", api.ActionCloseProposal, prop, "1")
	assert.Equal(t, http.StatusUnauthorized, status)

	// payload swapped after signing
	req, err := api.Sign(voter, api.ActionVote, at.prog.ProgramID(), prop, 1, "1")
	require.NoError(t, err)
	req.Payload = "0"
	body, err := req.Marshal()
	require.NoError(t, err)
	status, _ = at.postRaw("/proposals/"+prop.String()+"/votes", body)
	assert.Equal(t, http.StatusUnauthorized, status)

	voted, err := at.prog.HasVoted(context.Background(), prop, voter.Address())
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestMalformedRequests(t *testing.T) {
	at := setupAPITest(t)
	at.initialize()
	prop := at.propose(at.admin, "malformed")
	voter := sdk.KeypairFromSecret([]byte("voter"))

	status, res := at.postRaw("/proposals", []byte("not json"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Malformed", res.Get("symbol").String())

	status, _ = at.post(voter, "/proposals/"+prop.String()+"/votes", api.ActionVote, prop, "maybe")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = at.post(at.admin, "/vault/fund", api.ActionFundVault, at.prog.RegistryAddress(), "-5")
	assert.Equal(t, http.StatusBadRequest, status)

	long := make([]byte, contract.DescriptionBudget+1)
	for i := range long {
		long[i] = 'q'
	}
	status, res = at.post(at.admin, "/proposals", api.ActionCreateProposal, at.prog.RegistryAddress(), string(long))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "DescriptionTooLong", res.Get("symbol").String())

	status, res = at.get("/proposals/99")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ProposalNotFound", res.Get("symbol").String())

	status, _ = at.get("/nope")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestNotInitializedOverHTTP(t *testing.T) {
	at := setupAPITest(t)
	status, res := at.get("/registry")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NotInitialized", res.Get("symbol").String())

	status, res = at.get("/health")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, at.prog.ProgramID().String(), res.Get("program").String())
}

// TestReplayedRequestRejected checks a captured body only ever commits once.
func TestReplayedRequestRejected(t *testing.T) {
	at := setupAPITest(t)
	at.initialize()
	ctx := context.Background()

	before, err := at.prog.VaultBalance(ctx)
	require.NoError(t, err)

	fund := at.sign(at.admin, api.ActionFundVault, at.prog.RegistryAddress(), strconv.FormatUint(reward, 10))
	status, res := at.postRaw("/vault/fund", fund)
	require.Equal(t, http.StatusOK, status, res.Raw)
	for i := 0; i < 2; i++ {
		status, res = at.postRaw("/vault/fund", fund)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "NonceAlreadyUsed", res.Get("symbol").String())
	}
	after, err := at.prog.VaultBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+reward, after)

	create := at.sign(at.admin, api.ActionCreateProposal, at.prog.RegistryAddress(), "once only")
	status, res = at.postRaw("/proposals", create)
	require.Equal(t, http.StatusCreated, status, res.Raw)
	status, _ = at.postRaw("/proposals", create)
	assert.Equal(t, http.StatusConflict, status)
	list, err := at.prog.Proposals(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// TestFailedRequestKeepsNonce checks a rejected instruction does not spend its nonce.
func TestFailedRequestKeepsNonce(t *testing.T) {
	at := setupAPITest(t)
	at.initialize()
	poor := sdk.KeypairFromSecret([]byte("poor"))

	status, res := at.post(poor, "/vault/fund", api.ActionFundVault, at.prog.RegistryAddress(), "5")
	require.GreaterOrEqual(t, status, http.StatusBadRequest, res.Raw)

	used, err := at.prog.NonceUsed(context.Background(), poor.Address(), at.nonce)
	require.NoError(t, err)
	assert.False(t, used)

	used, err = at.prog.NonceUsed(context.Background(), at.admin.Address(), 1)
	require.NoError(t, err)
	assert.True(t, used, "initialize committed under nonce 1")
}

func TestMissingNonce(t *testing.T) {
	at := setupAPITest(t)
	at.initialize()

	req, err := api.Sign(at.admin, api.ActionCreateProposal, at.prog.ProgramID(), at.prog.RegistryAddress(), 99, "no nonce")
	require.NoError(t, err)
	req.Nonce = 0
	body, err := req.Marshal()
	require.NoError(t, err)
	status, res := at.postRaw("/proposals", body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Malformed", res.Get("symbol").String())

	_, err = api.Sign(at.admin, api.ActionCreateProposal, at.prog.ProgramID(), at.prog.RegistryAddress(), 0, "x")
	assert.Error(t, err)
}
