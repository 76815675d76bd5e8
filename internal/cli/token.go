package cli

import (
	"context"
	"fmt"

	"dao_voting/internal/tui"
	"dao_voting/sdk"
	"dao_voting/token"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// defaultMintName is what create-mint uses when no name is given.
const defaultMintName = "reward"

func (a *app) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Create and move the reward token",
	}
	var mintFlag string
	cmd.PersistentFlags().StringVar(&mintFlag, "mint", "", "mint address (default: registry mint, else your default mint)")

	var decimals uint8
	createMint := &cobra.Command{
		Use:   "create-mint [name]",
		Short: "Create a mint with you as mint authority",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := a.signer()
			if err != nil {
				return err
			}
			name := defaultMintName
			if len(args) == 1 {
				name = args[0]
			}
			mint, err := token.DeriveMintAddress(kp.Address(), name)
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("decimals") {
				decimals = a.cfg.TokenDecimals
			}
			err = st.Update(cmdContext(cmd), func(s sdk.State) error {
				return token.InitializeMint(s, mint, kp.Address(), decimals)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "%s\n", mint)
			return err
		},
	}
	createMint.Flags().Uint8Var(&decimals, "decimals", 6, "token decimals")

	mintTo := &cobra.Command{
		Use:   "mint <owner> <amount>",
		Short: "Mint raw units into owner's associated account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := a.signer()
			if err != nil {
				return err
			}
			owner, err := sdk.AddressFromString(args[0])
			if err != nil {
				return err
			}
			amount, err := cast.ToUint64E(args[1])
			if err != nil {
				return errors.Wrap(err, "amount")
			}
			mint, err := a.resolveMint(cmdContext(cmd), mintFlag, kp.Address())
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			var acc sdk.Address
			err = st.Update(cmdContext(cmd), func(s sdk.State) error {
				var err error
				acc, _, err = token.CreateAssociatedAccount(s, owner, mint)
				if err != nil {
					return err
				}
				return token.MintTo(s, mint, acc, kp.Signer(), amount)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "minted %d to %s\n", amount, acc)
			return err
		},
	}

	balance := &cobra.Command{
		Use:   "balance [owner]",
		Short: "Show a token balance (default: your own)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var owner sdk.Address
			if len(args) == 1 {
				addr, err := sdk.AddressFromString(args[0])
				if err != nil {
					return err
				}
				owner = addr
			} else {
				kp, err := a.signer()
				if err != nil {
					return err
				}
				owner = kp.Address()
			}
			mint, err := a.resolveMint(cmdContext(cmd), mintFlag, owner)
			if err != nil {
				return err
			}
			acc, err := token.AssociatedAddress(owner, mint)
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			var bal uint64
			var decimals uint8
			err = st.View(cmdContext(cmd), func(s sdk.State) error {
				m, err := token.LoadMint(s, mint)
				if err != nil {
					return err
				}
				decimals = m.Decimals
				bal, err = token.Balance(s, acc)
				if errors.Is(err, token.ErrAccountNotFound) {
					bal, err = 0, nil
				}
				return err
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "%s %s\n", tui.FormatAmount(bal, decimals), owner)
			return err
		},
	}

	cmd.AddCommand(createMint, mintTo, balance)
	return cmd
}

// resolveMint prefers the flag, then the registry's mint, then the default
// mint of fallbackAuthority.
func (a *app) resolveMint(ctx context.Context, flag string, fallbackAuthority sdk.Address) (sdk.Address, error) {
	if flag != "" {
		return sdk.AddressFromString(flag)
	}
	prog, err := a.program()
	if err != nil {
		return sdk.ZeroAddress, err
	}
	if info, err := prog.Registry(ctx); err == nil {
		return info.Registry.Mint, nil
	}
	return token.DeriveMintAddress(fallbackAuthority, defaultMintName)
}
