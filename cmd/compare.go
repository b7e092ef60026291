package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/liftsim/internal/results"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare recorded runs per algorithm",
	Long: `Aggregates every recorded run per algorithm (mean and standard deviation
of each metric) and prints or writes the comparison as markdown, HTML,
JSON or CSV.`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().String("algorithm", "", "only include runs of this algorithm")
	compareCmd.Flags().String("scenario", "", "only include runs of this scenario")
	compareCmd.Flags().StringP("format", "f", "markdown", "output format: markdown, html, json or csv")
	compareCmd.Flags().StringP("out", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	algorithm, _ := cmd.Flags().GetString("algorithm")
	scenario, _ := cmd.Flags().GetString("scenario")
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	store, database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := store.List(cmd.Context(), results.Filter{Algorithm: algorithm, Scenario: scenario})
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if err := writeComparison(w, format, runs); err != nil {
		return err
	}
	if out != "" {
		fmt.Printf("Comparison of %d runs written to %s\n", len(runs), out)
	}
	return nil
}

func writeComparison(w io.Writer, format string, runs []results.Run) error {
	switch format {
	case "markdown", "md":
		_, err := io.WriteString(w, results.RenderMarkdown(results.Compare(runs)))
		return err
	case "html":
		page, err := results.RenderHTML(results.Compare(runs))
		if err != nil {
			return err
		}
		_, err = w.Write(page)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results.Compare(runs))
	case "csv":
		return results.WriteCSV(w, runs)
	default:
		return fmt.Errorf("unknown format %q: must be one of markdown, html, json, csv", format)
	}
}
