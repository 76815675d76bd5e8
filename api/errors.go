package api

import (
	"net/http"

	"dao_voting/contract"
	"dao_voting/token"

	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/pkg/errors"
)

var (
	errBadSignature = errors.New("bad signature")
	errNotFound     = errors.New("not found")
)

// errorBody is what every failed request gets back.
// Example payload: {"error":"proposal not active","code":6004,"symbol":"ProposalNotActive"}
type errorBody struct {
	Error  string
	Code   uint32
	Symbol string
}

func (e *errorBody) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"error":`)
	out.String(e.Error)
	out.RawString(`,"code":`)
	out.Uint32(e.Code)
	out.RawString(`,"symbol":`)
	out.String(e.Symbol)
	out.RawByte('}')
}

// programStatus maps program errors onto http status codes.
var programStatus = map[uint32]int{
	contract.ErrAlreadyInitialized.Code:       http.StatusConflict,
	contract.ErrNotInitialized.Code:           http.StatusConflict,
	contract.ErrDescriptionTooLong.Code:       http.StatusBadRequest,
	contract.ErrProposalNotFound.Code:         http.StatusNotFound,
	contract.ErrProposalNotActive.Code:        http.StatusConflict,
	contract.ErrAlreadyVoted.Code:             http.StatusConflict,
	contract.ErrInsufficientVaultBalance.Code: http.StatusConflict,
	contract.ErrUnauthorized.Code:             http.StatusForbidden,
	contract.ErrTallyOverflow.Code:            http.StatusConflict,
	contract.ErrInvalidAccount.Code:           http.StatusBadRequest,
	contract.ErrBallotNotFound.Code:           http.StatusNotFound,
	contract.ErrNonceUsed.Code:                http.StatusConflict,
}

// classify turns any error into a status and response body.
func classify(err error) (int, *errorBody) {
	body := &errorBody{Error: err.Error()}
	if perr, ok := contract.AsError(err); ok {
		body.Code = perr.Code
		body.Symbol = perr.Symbol
		if status, ok := programStatus[perr.Code]; ok {
			return status, body
		}
		return http.StatusBadRequest, body
	}
	switch {
	case errors.Is(err, errBadSignature):
		body.Symbol = "Unauthorized"
		return http.StatusUnauthorized, body
	case errors.Is(err, errMalformed):
		body.Symbol = "Malformed"
		return http.StatusBadRequest, body
	case errors.Is(err, errNotFound),
		errors.Is(err, token.ErrAccountNotFound),
		errors.Is(err, token.ErrMintNotFound):
		body.Symbol = "NotFound"
		return http.StatusNotFound, body
	case errors.Is(err, token.ErrInsufficientFunds):
		body.Symbol = "InsufficientFunds"
		return http.StatusConflict, body
	case errors.Is(err, token.ErrZeroAmount):
		body.Symbol = "Malformed"
		return http.StatusBadRequest, body
	}
	body.Symbol = "Internal"
	return http.StatusInternalServerError, body
}
