package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qfourier/algo"
	"qfourier/circuit"
	"qfourier/render"
	"qfourier/sim"
)

func newQFTCmd(a *app) *cobra.Command {
	var (
		qubits  int
		inverse bool
		qasm    bool
	)

	cmd := &cobra.Command{
		Use:   "qft",
		Short: "Print the quantum Fourier transform circuit",
		RunE: func(cmd *cobra.Command, args []string) error {
			build := algo.QFTCircuit
			if inverse {
				build = algo.InverseQFTCircuit
			}
			c, err := build(qubits)
			if err != nil {
				return err
			}
			a.logger.Debug("built fourier circuit",
				zap.String("name", c.Name),
				zap.Int("qubits", qubits),
				zap.Int("gates", c.Size()),
			)

			out := cmd.OutOrStdout()
			if qasm {
				text, err := c.ToQASM()
				if err != nil {
					return err
				}
				fmt.Fprint(out, text)
				return nil
			}

			styles := render.NewStyles(lipgloss.NewRenderer(out))
			fmt.Fprint(out, render.Draw(c, render.Options{Styles: &styles}))
			fmt.Fprintln(out)
			printGateCounts(cmd, c)
			return nil
		},
	}

	cmd.Flags().IntVarP(&qubits, "qubits", "n", 3, "number of qubits")
	cmd.Flags().BoolVar(&inverse, "inverse", false, "print the inverse transform")
	cmd.Flags().BoolVar(&qasm, "qasm", false, "print OpenQASM 2.0 instead of a diagram")
	return cmd
}

func printGateCounts(cmd *cobra.Command, c *circuit.Circuit) {
	counts := c.Counts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%-6s %d\n", name, counts[name])
	}
}

func newQPECmd(a *app) *cobra.Command {
	var (
		precision int
		phase     float64
		shots     int
		seed      uint64
	)

	cmd := &cobra.Command{
		Use:   "qpe",
		Short: "Estimate the eigenphase of a phase gate",
		Long: `Builds quantum phase estimation of diag(1, e^{2πiθ}) with the
ancilla prepared in its |1⟩ eigenstate, simulates it, and prints the
measured precision register and the decoded phase.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if precision < 1 {
				return errors.Errorf("precision must be positive, got %d", precision)
			}
			if !cmd.Flags().Changed("shots") {
				shots = a.cfg.Simulation.Shots
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Simulation.Seed
			}

			c, err := algo.PhaseEstimationCircuit(phase, precision)
			if err != nil {
				return err
			}
			res, err := sim.Simulate(c, shots, seed)
			if err != nil {
				return err
			}
			estimate, bits, err := algo.EstimatePhase(res.Counts)
			if err != nil {
				return err
			}
			a.logger.Debug("phase estimation finished",
				zap.Float64("theta", phase),
				zap.Int("precision", precision),
				zap.Int("shots", shots),
				zap.String("outcome", bits),
			)

			out := cmd.OutOrStdout()
			fmt.Fprint(out, sim.FormatCounts(res.Counts))
			fmt.Fprintf(out, "estimated phase: %g (outcome %s)\n", estimate, bits)
			return nil
		},
	}

	cmd.Flags().IntVarP(&precision, "precision", "p", 3, "number of precision qubits")
	cmd.Flags().Float64Var(&phase, "phase", 0.25, "eigenphase θ as a fraction of a turn")
	cmd.Flags().IntVar(&shots, "shots", 1024, "number of samples")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "sampler seed")
	return cmd
}
