package api

import (
	"strconv"
	"strings"

	"dao_voting/sdk"

	"github.com/CosmWasm/tinyjson"
	"github.com/CosmWasm/tinyjson/jlexer"
	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/decred/base58"
	"github.com/pkg/errors"
)

// Actions name what a signature authorizes. They are part of the signed
// message so a vote signature cannot be replayed as a close.
const (
	ActionInitialize     = "initialize"
	ActionCreateProposal = "create_proposal"
	ActionVote           = "vote"
	ActionCloseProposal  = "close_proposal"
	ActionFundVault      = "fund_vault"
)

// SignedRequest is the body of every mutating call. Nonce must be non-zero
// and is spent when the request commits, so a captured body cannot run twice.
// Example payload: {"signer":"<base58>","signature":"<base58>","nonce":7,"payload":"1"}
type SignedRequest struct {
	Signer    string
	Signature string
	Nonce     uint64
	Payload   string
}

// SigningMessage is what gets signed: action|programID|target|nonce|payload.
func SigningMessage(action string, program, target sdk.Address, nonce uint64, payload string) []byte {
	return []byte(strings.Join([]string{action, program.String(), target.String(), strconv.FormatUint(nonce, 10), payload}, "|"))
}

// Sign builds a request for action on target, signed by kp.
// Example payload: Sign(kp, ActionVote, programID, proposalAddr, 7, "1")
func Sign(kp *sdk.Keypair, action string, program, target sdk.Address, nonce uint64, payload string) (*SignedRequest, error) {
	if nonce == 0 {
		return nil, errors.Wrap(errMalformed, "nonce must be non-zero")
	}
	sig, err := kp.Sign(SigningMessage(action, program, target, nonce, payload))
	if err != nil {
		return nil, err
	}
	return &SignedRequest{
		Signer:    kp.Address().String(),
		Signature: base58.Encode(sig),
		Nonce:     nonce,
		Payload:   payload,
	}, nil
}

// Verify checks the signature against action and target and returns the
// verified signer.
func (r *SignedRequest) Verify(action string, program, target sdk.Address) (sdk.Signer, error) {
	if r.Nonce == 0 {
		return sdk.Signer{}, errors.Wrap(errMalformed, "nonce required")
	}
	signer, err := sdk.AddressFromString(r.Signer)
	if err != nil {
		return sdk.Signer{}, errors.Wrap(errBadSignature, "signer is not an address")
	}
	sig := base58.Decode(r.Signature)
	if len(sig) == 0 {
		return sdk.Signer{}, errors.Wrap(errBadSignature, "empty signature")
	}
	if err := sdk.VerifySignature(signer, SigningMessage(action, program, target, r.Nonce, r.Payload), sig); err != nil {
		return sdk.Signer{}, errors.Wrap(errBadSignature, err.Error())
	}
	return sdk.NewSigner(signer), nil
}

// Marshal is a shortcut for tinyjson.Marshal(r).
func (r *SignedRequest) Marshal() ([]byte, error) {
	return tinyjson.Marshal(r)
}

func (r *SignedRequest) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"signer":`)
	out.String(r.Signer)
	out.RawString(`,"signature":`)
	out.String(r.Signature)
	out.RawString(`,"nonce":`)
	out.Uint64(r.Nonce)
	out.RawString(`,"payload":`)
	out.String(r.Payload)
	out.RawByte('}')
}

func (r *SignedRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeString()
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "signer":
			r.Signer = in.String()
		case "signature":
			r.Signature = in.String()
		case "nonce":
			r.Nonce = in.Uint64()
		case "payload":
			r.Payload = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}
