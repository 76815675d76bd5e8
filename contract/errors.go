package contract

import "github.com/pkg/errors"

// Error is a program failure with a stable numeric code and symbol, so
// clients can match on it without parsing messages.
type Error struct {
	Code   uint32
	Symbol string
	Msg    string
}

func (e *Error) Error() string { return e.Msg }

// Program error codes start at 6000.
var (
	ErrAlreadyInitialized       = &Error{6000, "AlreadyInitialized", "registry already initialized"}
	ErrNotInitialized           = &Error{6001, "NotInitialized", "registry not initialized"}
	ErrDescriptionTooLong       = &Error{6002, "DescriptionTooLong", "description exceeds budget"}
	ErrProposalNotFound         = &Error{6003, "ProposalNotFound", "proposal not found"}
	ErrProposalNotActive        = &Error{6004, "ProposalNotActive", "proposal not active"}
	ErrAlreadyVoted             = &Error{6005, "AlreadyVoted", "voter already voted on this proposal"}
	ErrInsufficientVaultBalance = &Error{6006, "InsufficientVaultBalance", "vault balance too low for reward"}
	ErrUnauthorized             = &Error{6007, "Unauthorized", "unauthorized"}
	ErrTallyOverflow            = &Error{6008, "TallyOverflow", "tally overflow"}
	ErrInvalidAccount           = &Error{6009, "InvalidAccount", "invalid account"}
	ErrBallotNotFound           = &Error{6010, "BallotNotFound", "ballot not found"}
	ErrNonceUsed                = &Error{6011, "NonceAlreadyUsed", "request nonce already used"}
)

// AsError digs the program error out of a wrapped chain.
// Example payload: AsError(errors.Wrap(ErrAlreadyVoted, "vote"))
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
