package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qfourier/internal/config"
	"qfourier/internal/logging"
)

// app carries state shared by every subcommand once the root has run.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "qfourier",
		Short: "Quantum Fourier transform and phase estimation toolkit",
		Long: `qfourier builds QFT and QPE circuits, simulates them on a local
state-vector simulator, and reports the status of remote quantum backends.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = a.logLevel
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(
		&a.configPath,
		"config",
		"",
		"path to a YAML config file",
	)
	rootCmd.PersistentFlags().StringVar(
		&a.logLevel,
		"log-level",
		"info",
		"log level (debug, info, warn, error)",
	)

	rootCmd.AddCommand(
		newQFTCmd(a),
		newQPECmd(a),
		newBackendsCmd(a),
		newTUICmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}
