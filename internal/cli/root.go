// Package cli wires the daovote command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"dao_voting/contract"
	"dao_voting/internal/config"
	"dao_voting/internal/db"
	"dao_voting/internal/logger"
	"dao_voting/sdk"

	"github.com/CosmWasm/tinyjson"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app is shared by every command: config is loaded once in the root
// PersistentPreRunE, the store and program are opened on first use.
type app struct {
	configPath  string
	databaseURL string
	keyFile     string
	logLevel    string

	cfg   config.Config
	log   zerolog.Logger
	out   io.Writer
	store sdk.Store
	prog  *contract.Program
}

// NewRootCmd builds the command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:           "daovote",
		Short:         "Proposals, one vote per member and a token reward per vote",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.Flags())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.databaseURL, "database-url", "", "override DATABASE_URL (postgres://, sqlite://, leveldb://)")
	pf.StringVar(&a.keyFile, "key", "", "key file used to sign (default from config)")
	pf.StringVar(&a.logLevel, "log-level", "", "override LOG_LEVEL")

	root.AddCommand(
		a.serveCmd(),
		a.keysCmd(),
		a.signCmd(),
		a.tokenCmd(),
		a.initCmd(),
		a.proposeCmd(),
		a.voteCmd(),
		a.closeCmd(),
		a.fundCmd(),
		a.registryCmd(),
		a.showCmd(),
		a.listCmd(),
		a.watchCmd(),
	)
	a.closeOnError(root)
	return root
}

// closeOnError releases the store when a command fails, since cobra skips
// PersistentPostRunE in that case and leveldb keeps its lock until closed.
func (a *app) closeOnError(cmd *cobra.Command) {
	for _, c := range cmd.Commands() {
		a.closeOnError(c)
	}
	if cmd.RunE == nil {
		return
	}
	run := cmd.RunE
	cmd.RunE = func(c *cobra.Command, args []string) error {
		err := run(c, args)
		if err != nil {
			if cerr := a.close(); cerr != nil {
				a.log.Warn().Err(cerr).Msg("close store")
			}
		}
		return err
	}
}

// Execute runs the root command against os.Args.
func Execute() error {
	ctx, cancel := signalContext()
	defer cancel()
	return NewRootCmd(os.Stdout).ExecuteContext(ctx)
}

func (a *app) load(flags *pflag.FlagSet) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if flags.Changed("database-url") {
		if err := cfg.SetDatabaseURL(a.databaseURL); err != nil {
			return err
		}
	}
	if flags.Changed("key") {
		cfg.KeyFile = a.keyFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg
	a.log = logger.New(cfg.LogLevel, cfg.LogFormat)
	a.log.Debug().Str("config", cfg.DebugString()).Msg("config loaded")
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store, a.prog = nil, nil
	return err
}

// openStore opens the configured substrate once.
func (a *app) openStore() (sdk.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	st, err := db.OpenStore(a.cfg, a.log)
	if err != nil {
		return nil, err
	}
	a.store = st
	return st, nil
}

// program opens the store and wraps it with the configured program.
func (a *app) program() (*contract.Program, error) {
	if a.prog != nil {
		return a.prog, nil
	}
	st, err := a.openStore()
	if err != nil {
		return nil, err
	}
	id, err := a.cfg.ProgramAddress()
	if err != nil {
		return nil, err
	}
	prog, err := contract.New(st, contract.Options{
		ProgramID:             id,
		RewardAmount:          a.cfg.RewardAmount,
		RequireCreatorToClose: a.cfg.RequireCreatorToClose,
		Logger:                a.log,
	})
	if err != nil {
		return nil, err
	}
	a.prog = prog
	return prog, nil
}

// signer loads the key file as the signing identity.
func (a *app) signer() (*sdk.Keypair, error) {
	kp, err := sdk.LoadKeypair(a.cfg.KeyFile)
	if err != nil {
		return nil, errors.Wrapf(err, "load key %s (run `daovote keys new` first)", a.cfg.KeyFile)
	}
	return kp, nil
}

// printJSON writes any tinyjson marshaler followed by a newline.
func (a *app) printJSON(v tinyjson.Marshaler) error {
	raw, err := tinyjson.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(raw))
	return err
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
