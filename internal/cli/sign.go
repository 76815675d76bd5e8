package cli

import (
	"time"

	"dao_voting/api"
	"dao_voting/contract"
	"dao_voting/sdk"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// signCmd prints a signed request body for the HTTP api, so a client never
// needs the key on the server side.
func (a *app) signCmd() *cobra.Command {
	var action, target, payload string
	var nonce uint64
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print a signed api request body",
		Example: `  daovote sign --action vote --target 0 --payload 1 | curl -d @- localhost:8080/proposals/0/votes
  daovote sign --action create_proposal --payload "fund the docs"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kp, err := a.signer()
			if err != nil {
				return err
			}
			programID, err := a.cfg.ProgramAddress()
			if err != nil {
				return err
			}
			to, err := signTarget(programID, action, target)
			if err != nil {
				return err
			}
			if nonce == 0 {
				nonce = uint64(time.Now().UnixNano())
			}
			req, err := api.Sign(kp, action, programID, to, nonce, payload)
			if err != nil {
				return err
			}
			return a.printJSON(req)
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "initialize|create_proposal|vote|close_proposal|fund_vault")
	cmd.Flags().StringVar(&target, "target", "", "proposal address or id (vote and close only)")
	cmd.Flags().StringVar(&payload, "payload", "", "request payload")
	cmd.Flags().Uint64Var(&nonce, "nonce", 0, "request nonce, spent on success (default: current unix nanos)")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

// signTarget picks the address a signature binds to: the registry for
// registry level actions, the proposal otherwise.
func signTarget(programID sdk.Address, action, target string) (sdk.Address, error) {
	switch action {
	case api.ActionInitialize, api.ActionCreateProposal, api.ActionFundVault:
		registry, _, err := contract.DeriveRegistryAddress(programID)
		return registry, err
	case api.ActionVote, api.ActionCloseProposal:
		if target == "" {
			return sdk.ZeroAddress, errors.New("--target is required for " + action)
		}
		if addr, err := sdk.AddressFromString(target); err == nil {
			return addr, nil
		}
		id, err := cast.ToUint64E(target)
		if err != nil {
			return sdk.ZeroAddress, errors.Errorf("target %q is neither an address nor an id", target)
		}
		return contract.DeriveProposalAddress(programID, id)
	default:
		return sdk.ZeroAddress, errors.Errorf("unknown action %q", action)
	}
}
