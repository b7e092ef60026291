package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/liftsim/internal/results"
	"github.com/ziadkadry99/liftsim/internal/sim"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [scenario.csv]",
	Short: "Run one scenario through a dispatch algorithm",
	Long: `Runs a rider demand scenario through the configured (or given) dispatch
algorithm, writes the event trace for the visualizer and prints the
performance statistics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringP("algorithm", "a", "", "dispatch algorithm (overrides config)")
	simulateCmd.Flags().StringP("out", "o", "", "trace output path; a .js suffix writes data.js for the standalone page")
	simulateCmd.Flags().Bool("events", false, "print every rider and floor event")
	simulateCmd.Flags().Bool("record", false, "record the run in the results database")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scenario := cfg.SimulationFile
	if len(args) == 1 {
		scenario = args[0]
	}
	algorithm := cfg.Algorithm
	if a, _ := cmd.Flags().GetString("algorithm"); a != "" {
		algorithm = a
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = defaultTracePath(cfg)
	}
	printEvents, _ := cmd.Flags().GetBool("events")
	record, _ := cmd.Flags().GetBool("record")

	ctx, stop := signalContext()
	defer stop()

	runner, res, err := sim.RunFile(ctx, cfg.Elevator.Kinematics(), algorithm, scenario, sim.WithLogger(logger))
	if err != nil {
		return err
	}

	if printEvents {
		if err := runner.Monitor().PrintEvents(os.Stdout); err != nil {
			return err
		}
		fmt.Println()
	}

	if err := writeTrace(res.Trace, out); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}

	fmt.Printf("Scenario:  %s\n", res.Scenario)
	fmt.Printf("Algorithm: %s\n", res.Algorithm)
	fmt.Printf("Floors:    %d\n\n", res.Floors)
	if err := runner.Monitor().PrintStats(os.Stdout); err != nil {
		return err
	}
	fmt.Printf("\nTrace written to %s\n", out)

	if record {
		store, database, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		run := results.FromResult(*res)
		run.TracePath = out
		if err := store.Record(ctx, run); err != nil {
			return err
		}
		logger.Info("run recorded", zap.String("id", run.ID), zap.String("algorithm", run.Algorithm))
		fmt.Printf("Recorded as run %s\n", run.ID)
	}
	return nil
}
