// Package api serves the governance program over HTTP. Reads are plain GETs;
// every mutation is a signed request verified before the program sees it.
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"dao_voting/contract"
	"dao_voting/sdk"

	"github.com/CosmWasm/tinyjson"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies; the largest payload is a description.
const maxBodyBytes = 64 << 10

type Server struct {
	prog   *contract.Program
	log    zerolog.Logger
	router *mux.Router
}

// NewServer registers all routes for prog.
func NewServer(prog *contract.Program, log zerolog.Logger) *Server {
	s := &Server{prog: prog, log: log, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.logRequests)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/registry", s.handleGetRegistry).Methods(http.MethodGet)
	r.HandleFunc("/registry", s.handleInitialize).Methods(http.MethodPost)
	r.HandleFunc("/proposals", s.handleListProposals).Methods(http.MethodGet)
	r.HandleFunc("/proposals", s.handleCreateProposal).Methods(http.MethodPost)
	r.HandleFunc("/proposals/{proposal}", s.handleGetProposal).Methods(http.MethodGet)
	r.HandleFunc("/proposals/{proposal}/votes", s.handleVote).Methods(http.MethodPost)
	r.HandleFunc("/proposals/{proposal}/close", s.handleClose).Methods(http.MethodPost)
	r.HandleFunc("/proposals/{proposal}/ballots/{voter}", s.handleGetBallot).Methods(http.MethodGet)
	r.HandleFunc("/vault/fund", s.handleFundVault).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{owner}/balance", s.handleBalance).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, errors.Wrap(errNotFound, "no such route"))
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("api listening")
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("api shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// -----------------------------------------------------------------------------
// Plumbing
// -----------------------------------------------------------------------------

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v tinyjson.Marshaler) {
	raw, err := tinyjson.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	s.writeJSON(w, status, body)
}

// readSigned decodes the body and verifies it for action on target. The
// returned context carries the request nonce, which the program spends in the
// same transaction as the instruction.
func (s *Server) readSigned(w http.ResponseWriter, r *http.Request, action string, target sdk.Address) (context.Context, sdk.Signer, string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, sdk.Signer{}, "", errors.Wrap(errMalformed, "read body")
	}
	var req SignedRequest
	if err := tinyjson.Unmarshal(body, &req); err != nil {
		return nil, sdk.Signer{}, "", errors.Wrapf(errMalformed, "decode body: %v", err)
	}
	signer, err := req.Verify(action, s.prog.ProgramID(), target)
	if err != nil {
		return nil, sdk.Signer{}, "", err
	}
	return contract.WithNonce(r.Context(), signer.Address, req.Nonce), signer, req.Payload, nil
}

// proposalFromPath accepts either a base58 address or a numeric id.
func (s *Server) proposalFromPath(r *http.Request) (sdk.Address, error) {
	raw := mux.Vars(r)["proposal"]
	if addr, err := sdk.AddressFromString(raw); err == nil {
		return addr, nil
	}
	id, err := parseUintField(raw, "proposal")
	if err != nil {
		return sdk.ZeroAddress, err
	}
	return s.prog.ProposalAddress(id)
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, &healthResponse{Program: s.prog.ProgramID(), Reward: s.prog.RewardAmount()})
}

func (s *Server) handleGetRegistry(w http.ResponseWriter, r *http.Request) {
	info, err := s.prog.Registry(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

// handleInitialize expects the mint address as payload.
func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	ctx, signer, payload, err := s.readSigned(w, r, ActionInitialize, s.prog.RegistryAddress())
	if err != nil {
		s.writeError(w, err)
		return
	}
	raw, err := unwrapPayload(payload, "mint address required")
	if err != nil {
		s.writeError(w, err)
		return
	}
	mint, err := parseAddressField(raw, "mint")
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.prog.Initialize(ctx, signer, mint)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	list, err := s.prog.Proposals(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

// handleCreateProposal takes the payload verbatim as the description.
func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	ctx, signer, payload, err := s.readSigned(w, r, ActionCreateProposal, s.prog.RegistryAddress())
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.prog.CreateProposal(ctx, signer, payload)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	addr, err := s.proposalFromPath(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	info, err := s.prog.Proposal(r.Context(), addr)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

// handleVote expects 1/0 (or for/against) as payload.
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	addr, err := s.proposalFromPath(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ctx, signer, payload, err := s.readSigned(w, r, ActionVote, addr)
	if err != nil {
		s.writeError(w, err)
		return
	}
	raw, err := unwrapPayload(payload, "vote choice required")
	if err != nil {
		s.writeError(w, err)
		return
	}
	voteFor, err := ParseChoice(raw)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.prog.Vote(ctx, signer, addr, voteFor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	addr, err := s.proposalFromPath(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ctx, signer, _, err := s.readSigned(w, r, ActionCloseProposal, addr)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.prog.CloseProposal(ctx, signer, addr)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetBallot(w http.ResponseWriter, r *http.Request) {
	addr, err := s.proposalFromPath(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	voter, err := parseAddressField(mux.Vars(r)["voter"], "voter")
	if err != nil {
		s.writeError(w, err)
		return
	}
	info, err := s.prog.Ballot(r.Context(), addr, voter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

// handleFundVault expects the raw token amount as payload.
func (s *Server) handleFundVault(w http.ResponseWriter, r *http.Request) {
	ctx, signer, payload, err := s.readSigned(w, r, ActionFundVault, s.prog.RegistryAddress())
	if err != nil {
		s.writeError(w, err)
		return
	}
	raw, err := unwrapPayload(payload, "amount required")
	if err != nil {
		s.writeError(w, err)
		return
	}
	amount, err := parseUintField(raw, "amount")
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.prog.FundVault(ctx, signer, amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	owner, err := parseAddressField(mux.Vars(r)["owner"], "owner")
	if err != nil {
		s.writeError(w, err)
		return
	}
	bal, err := s.prog.TokenBalance(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, &balanceResponse{Owner: owner, Balance: bal})
}
