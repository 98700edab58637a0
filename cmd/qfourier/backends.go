package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qfourier/backend"
	"qfourier/tui"
)

func newBackendsCmd(a *app) *cobra.Command {
	var table bool

	cmd := &cobra.Command{
		Use:   "backends",
		Short: "Report the status of every backend available to the account",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()

			client, err := backend.NewClient(a.cfg.Provider.Backend(), backend.WithLogger(a.logger))
			if err != nil {
				return err
			}
			if err := client.Open(ctx); err != nil {
				return err
			}
			defer func() {
				if cerr := client.Close(ctx); cerr != nil {
					a.logger.Warn("logout failed", zap.Error(cerr))
					if err == nil {
						err = errors.Wrap(cerr, "close session")
					}
				}
			}()

			if table {
				return backend.Table(ctx, cmd.OutOrStdout(), client)
			}
			return backend.Report(ctx, cmd.OutOrStdout(), client)
		},
	}

	cmd.Flags().BoolVar(&table, "table", false, "render a table instead of the plain report")
	return cmd
}

func newTUICmd(a *app) *cobra.Command {
	var (
		qubits int
		save   string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive circuit workbench",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), tui.Options{
				NumQubits: qubits,
				Shots:     a.cfg.Simulation.Shots,
				Seed:      a.cfg.Simulation.Seed,
				SavePath:  save,
				Logger:    a.logger,
			})
		},
	}

	cmd.Flags().IntVarP(&qubits, "qubits", "n", 3, "initial number of qubits")
	cmd.Flags().StringVar(&save, "save", "circuit.qasm", "where ctrl+s writes OpenQASM")
	return cmd
}
