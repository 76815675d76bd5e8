package cli

import (
	"fmt"
	"strings"

	"dao_voting/api"
	"dao_voting/contract"
	"dao_voting/internal/tui"
	"dao_voting/sdk"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// resolveProposal accepts a base58 address or a numeric id.
func resolveProposal(prog *contract.Program, raw string) (sdk.Address, error) {
	if addr, err := sdk.AddressFromString(raw); err == nil {
		return addr, nil
	}
	id, err := cast.ToUint64E(raw)
	if err != nil {
		return sdk.ZeroAddress, errors.Errorf("%q is neither a proposal address nor an id", raw)
	}
	return prog.ProposalAddress(id)
}

// signedProgram is the common prelude of every mutating command.
func (a *app) signedProgram() (*contract.Program, *sdk.Keypair, error) {
	kp, err := a.signer()
	if err != nil {
		return nil, nil, err
	}
	prog, err := a.program()
	if err != nil {
		return nil, nil, err
	}
	return prog, kp, nil
}

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <mint>",
		Short: "Create the registry and its reward vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, kp, err := a.signedProgram()
			if err != nil {
				return err
			}
			mint, err := sdk.AddressFromString(args[0])
			if err != nil {
				return err
			}
			res, err := prog.Initialize(cmdContext(cmd), kp.Signer(), mint)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
}

func (a *app) proposeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "propose <description...>",
		Short: "Open a new proposal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, kp, err := a.signedProgram()
			if err != nil {
				return err
			}
			res, err := prog.CreateProposal(cmdContext(cmd), kp.Signer(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
}

func (a *app) voteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote <proposal> <for|against>",
		Short: "Vote once on an active proposal and collect the reward",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, kp, err := a.signedProgram()
			if err != nil {
				return err
			}
			addr, err := resolveProposal(prog, args[0])
			if err != nil {
				return err
			}
			voteFor, err := api.ParseChoice(args[1])
			if err != nil {
				return err
			}
			res, err := prog.Vote(cmdContext(cmd), kp.Signer(), addr, voteFor)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
}

func (a *app) closeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <proposal>",
		Short: "Close a proposal to further votes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, kp, err := a.signedProgram()
			if err != nil {
				return err
			}
			addr, err := resolveProposal(prog, args[0])
			if err != nil {
				return err
			}
			res, err := prog.CloseProposal(cmdContext(cmd), kp.Signer(), addr)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
}

func (a *app) fundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fund <amount>",
		Short: "Move raw token units from your account into the vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, kp, err := a.signedProgram()
			if err != nil {
				return err
			}
			amount, err := cast.ToUint64E(args[0])
			if err != nil {
				return errors.Wrap(err, "amount")
			}
			res, err := prog.FundVault(cmdContext(cmd), kp.Signer(), amount)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
}

func (a *app) registryCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Show the registry and vault balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prog, err := a.program()
			if err != nil {
				return err
			}
			info, err := prog.Registry(cmdContext(cmd))
			if err != nil {
				return err
			}
			if asJSON {
				return a.printJSON(info)
			}
			_, err = fmt.Fprintln(a.out, tui.RenderRegistry(info, a.cfg.TokenDecimals))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print json")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <proposal>",
		Short: "Show one proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := a.program()
			if err != nil {
				return err
			}
			addr, err := resolveProposal(prog, args[0])
			if err != nil {
				return err
			}
			info, err := prog.Proposal(cmdContext(cmd), addr)
			if err != nil {
				return err
			}
			if asJSON {
				return a.printJSON(info)
			}
			_, err = fmt.Fprintln(a.out, tui.RenderProposal(info))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print json")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var asJSON bool
	var width int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all proposals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prog, err := a.program()
			if err != nil {
				return err
			}
			list, err := prog.Proposals(cmdContext(cmd))
			if err != nil {
				return err
			}
			if asJSON {
				return a.printJSON(list)
			}
			_, err = fmt.Fprintln(a.out, tui.RenderProposals(list, width))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print json")
	cmd.Flags().IntVar(&width, "width", 100, "table width in cells")
	return cmd
}
