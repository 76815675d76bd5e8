package contract

import (
	"dao_voting/contract/dao"
	"dao_voting/sdk"

	"github.com/pkg/errors"
)

// -----------------------------------------------------------------------------
// Registry State
// -----------------------------------------------------------------------------

// isInitialized returns true once the registry record exists.
func (p *Program) isInitialized(st sdk.State) (bool, error) {
	rec, err := st.Get(p.registry)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// loadRegistry fails with NotInitialized when the registry is missing and
// InvalidAccount when the bytes there are not ours.
func (p *Program) loadRegistry(st sdk.State) (*dao.Registry, error) {
	rec, err := st.Get(p.registry)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotInitialized
	}
	if rec.Owner != p.id {
		return nil, errors.Wrapf(ErrInvalidAccount, "registry %s owned by %s", p.registry, rec.Owner)
	}
	reg, err := dao.DecodeRegistry(rec.Data)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAccount, "decode registry: %v", err)
	}
	return reg, nil
}

func (p *Program) saveRegistry(st sdk.State, reg *dao.Registry) error {
	return errors.Wrap(st.Put(p.registry, dao.EncodeRegistry(reg)), "save registry")
}
