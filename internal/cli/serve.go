package cli

import (
	"context"
	"time"

	"dao_voting/api"
	"dao_voting/internal/tui"

	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the program over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prog, err := a.program()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = a.cfg.ListenAddr
			}
			a.log.Info().Str("config", a.cfg.String()).Str("program", prog.ProgramID().String()).Msg("starting")
			return api.NewServer(prog, a.log).ListenAndServe(cmdContext(cmd), listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of proposals and tallies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prog, err := a.program()
			if err != nil {
				return err
			}
			source := func(ctx context.Context) tui.Snapshot {
				snap := tui.Snapshot{At: time.Now()}
				snap.Registry, snap.Err = prog.Registry(ctx)
				if snap.Err != nil {
					return snap
				}
				snap.Proposals, snap.Err = prog.Proposals(ctx)
				return snap
			}
			return tui.Run(cmdContext(cmd), source, interval, a.cfg.TokenDecimals)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "refresh interval")
	return cmd
}
