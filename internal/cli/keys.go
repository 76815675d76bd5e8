package cli

import (
	"fmt"
	"os"

	"dao_voting/sdk"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the local signing key",
	}

	var force bool
	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a keypair and write it to the key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.cfg.KeyFile
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Errorf("%s already exists, pass --force to overwrite", path)
			}
			kp := sdk.GenerateKeypair()
			if err := kp.Save(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(a.out, "%s\n", kp.Address())
			return err
		},
	}
	newCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the address of the key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kp, err := a.signer()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "%s\n", kp.Address())
			return err
		},
	}

	cmd.AddCommand(newCmd, showCmd)
	return cmd
}
