// Package contract is the governance program: a registry of proposals, one
// ballot per voter and a token reward paid from the vault for every vote.
package contract

import (
	"context"

	"dao_voting/sdk"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Options configures a Program instance.
type Options struct {
	ProgramID sdk.Address
	// RewardAmount is paid from the vault for every accepted vote.
	RewardAmount uint64
	// RequireCreatorToClose limits CloseProposal to the proposal creator.
	RequireCreatorToClose bool
	Logger                zerolog.Logger
}

// DefaultOptions returns the stock program setup with a silent logger.
func DefaultOptions() Options {
	return Options{
		ProgramID:             DefaultProgramID,
		RewardAmount:          DefaultRewardAmount,
		RequireCreatorToClose: true,
		Logger:                zerolog.Nop(),
	}
}

// Program runs the governance instructions against a Store. Each instruction
// is one Store.Update, so it either commits every write or none.
type Program struct {
	store        sdk.Store
	id           sdk.Address
	reward       uint64
	creatorClose bool
	log          zerolog.Logger

	registry     sdk.Address
	registryBump uint8
}

// New wires a program to a store. The registry address is derived up front
// since it only depends on the program id.
func New(store sdk.Store, opts Options) (*Program, error) {
	if store == nil {
		return nil, errors.New("nil store")
	}
	if opts.ProgramID.IsZero() {
		opts.ProgramID = DefaultProgramID
	}
	registry, bump, err := DeriveRegistryAddress(opts.ProgramID)
	if err != nil {
		return nil, errors.Wrap(err, "derive registry address")
	}
	return &Program{
		store:        store,
		id:           opts.ProgramID,
		reward:       opts.RewardAmount,
		creatorClose: opts.RequireCreatorToClose,
		log:          opts.Logger.With().Str("program", opts.ProgramID.String()).Logger(),
		registry:     registry,
		registryBump: bump,
	}, nil
}

// ProgramID is the id that owns every record of this program.
func (p *Program) ProgramID() sdk.Address { return p.id }

// RewardAmount is the raw token amount paid per accepted vote.
func (p *Program) RewardAmount() uint64 { return p.reward }

// RequireCreatorToClose reports whether only the creator may close a proposal.
func (p *Program) RequireCreatorToClose() bool { return p.creatorClose }

// -----------------------------------------------------------------------------
// Instruction context
// -----------------------------------------------------------------------------

// instruction carries the per-call state: the transactional view and the
// event lines buffered until commit.
type instruction struct {
	name string
	txID string
	st   sdk.State
	logs []string
}

func (ix *instruction) emit(line string) {
	ix.logs = append(ix.logs, line)
}

// execute runs fn inside one store transaction. Events are only logged when
// the transaction committed. A nonce attached to ctx is claimed in the same
// transaction, so it is spent exactly when the instruction commits.
func (p *Program) execute(ctx context.Context, name string, fn func(ix *instruction) error) (*instruction, error) {
	ix := &instruction{name: name, txID: newTxID()}
	claim, hasClaim := nonceFrom(ctx)
	err := p.store.Update(ctx, func(st sdk.State) error {
		ix.st = st
		ix.logs = ix.logs[:0]
		if hasClaim {
			if err := p.claimNonce(st, claim); err != nil {
				return err
			}
		}
		return fn(ix)
	})
	if err != nil {
		p.log.Debug().Str("ix", name).Str("tx", ix.txID).Err(err).Msg("instruction rejected")
		return nil, err
	}
	for _, line := range ix.logs {
		p.log.Info().Str("ix", name).Str("tx", ix.txID).Msg(line)
	}
	return ix, nil
}

// view runs fn read-only.
func (p *Program) view(ctx context.Context, fn func(st sdk.State) error) error {
	return p.store.View(ctx, fn)
}

// signerKey resolves the signing identity or fails with Unauthorized.
func signerKey(authority sdk.Authority) (sdk.Address, error) {
	if authority == nil {
		return sdk.ZeroAddress, errors.Wrap(ErrUnauthorized, "missing signer")
	}
	key, err := authority.Key()
	if err != nil {
		return sdk.ZeroAddress, errors.Wrapf(ErrUnauthorized, "resolve signer: %v", err)
	}
	if key.IsZero() {
		return sdk.ZeroAddress, errors.Wrap(ErrUnauthorized, "zero signer")
	}
	return key, nil
}
