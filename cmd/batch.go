package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/liftsim/internal/algo"
	"github.com/ziadkadry99/liftsim/internal/demand"
	"github.com/ziadkadry99/liftsim/internal/progress"
	"github.com/ziadkadry99/liftsim/internal/results"
	"github.com/ziadkadry99/liftsim/internal/sim"
)

var batchCmd = &cobra.Command{
	Use:   "batch [scenario.csv...]",
	Short: "Run many scenarios through several algorithms and record the results",
	Long: `Runs every scenario (the given files, or every file under --root matching
--pattern) through each algorithm concurrently, records the statistics in
the results database and optionally exports them as one CSV per algorithm.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("root", ".", "directory to search for scenarios")
	batchCmd.Flags().String("pattern", demand.DefaultPattern, "doublestar glob selecting scenario files under --root")
	batchCmd.Flags().StringSliceP("algorithms", "a", nil, "algorithms to run (default all)")
	batchCmd.Flags().Int("concurrency", 0, "max parallel runs (overrides config)")
	batchCmd.Flags().String("csv-dir", "", "write <algorithm>.csv result files to this directory")
	batchCmd.Flags().Bool("no-record", false, "do not record runs in the results database")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency > 0 {
		cfg.MaxConcurrency = concurrency
	}
	algorithms, _ := cmd.Flags().GetStringSlice("algorithms")
	if len(algorithms) == 0 {
		algorithms = algo.Names()
	}
	for _, a := range algorithms {
		if !algo.Known(a) {
			return fmt.Errorf("%w: %q", algo.ErrUnknownAlgorithm, a)
		}
	}
	csvDir, _ := cmd.Flags().GetString("csv-dir")
	noRecord, _ := cmd.Flags().GetBool("no-record")

	scenarios := args
	if len(scenarios) == 0 {
		root, _ := cmd.Flags().GetString("root")
		pattern, _ := cmd.Flags().GetString("pattern")
		scenarios, err = demand.Discover(root, pattern)
		if err != nil {
			return err
		}
	}
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenario files found")
	}

	total := len(scenarios) * len(algorithms)
	logger.Info("starting batch",
		zap.Int("scenarios", len(scenarios)),
		zap.Strings("algorithms", algorithms),
		zap.Int("concurrency", cfg.MaxConcurrency),
	)

	ctx, stop := signalContext()
	defer stop()

	reporter := progress.NewReporter(os.Stderr)
	reporter.Start(total)
	done := 0
	runs, err := sim.Batch(ctx, cfg.Elevator.Kinematics(), scenarios, algorithms, cfg.MaxConcurrency, func(res sim.Result) {
		done++
		reporter.Update(done, fmt.Sprintf("%s on %s", res.Algorithm, filepath.Base(res.Scenario)))
	}, sim.WithLogger(logger))
	reporter.Finish()
	if err != nil {
		return err
	}

	recorded := make([]results.Run, 0, len(runs))
	for _, res := range runs {
		recorded = append(recorded, *results.FromResult(res))
	}

	if !noRecord {
		store, database, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		for i := range recorded {
			if err := store.Record(ctx, &recorded[i]); err != nil {
				return err
			}
		}
		fmt.Printf("Recorded %d runs in %s\n", len(recorded), cfg.DatabasePath())
	}

	if csvDir != "" {
		if err := exportCSV(csvDir, algorithms, recorded); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Print(results.RenderMarkdown(results.Compare(recorded)))
	return nil
}

// exportCSV writes one file per algorithm holding that algorithm's runs.
func exportCSV(dir string, algorithms []string, runs []results.Run) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating csv dir: %w", err)
	}
	for _, a := range algorithms {
		var own []results.Run
		for _, r := range runs {
			if r.Algorithm == a {
				own = append(own, r)
			}
		}
		path := filepath.Join(dir, a+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := results.WriteCSV(f, own); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}
