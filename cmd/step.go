package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/liftsim/internal/replay"
	"github.com/ziadkadry99/liftsim/internal/trace"
)

var stepCmd = &cobra.Command{
	Use:   "step [trace]",
	Short: "Replay a trace in the terminal, one event per line",
	Long: `Steps through a trace exactly as the browser visualizer does and prints
the elevator position and rider counters after every event.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStep,
}

func init() {
	stepCmd.Flags().Int("from", -1, "start after this event index")
	stepCmd.Flags().IntP("steps", "n", 0, "number of steps to show (default all)")
	rootCmd.AddCommand(stepCmd)
}

func runStep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := defaultTracePath(cfg)
	if len(args) == 1 {
		path = args[0]
	}
	from, _ := cmd.Flags().GetInt("from")
	steps, _ := cmd.Flags().GetInt("steps")

	tr, err := trace.Load(path)
	if err != nil {
		return err
	}
	p, err := replay.NewPlayer(tr, viewerLayout(cfg))
	if err != nil {
		return err
	}
	return stepThrough(os.Stdout, p, from, steps)
}

// stepThrough seeks to from and prints up to steps frames (all when
// steps <= 0), ending with the exhausted message if the trace runs out.
func stepThrough(w io.Writer, p *replay.Player, from, steps int) error {
	if _, err := p.Seek(from); err != nil {
		return err
	}
	for n := 0; steps <= 0 || n < steps; n++ {
		f, err := p.Step()
		if errors.Is(err, replay.ErrNoMoreSteps) {
			fmt.Fprintln(w, "No more steps!")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(w, formatFrame(f))
	}
	return nil
}

func formatFrame(f replay.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", f.Progress)
	if f.Event != nil {
		fmt.Fprintf(&b, " ts=%.2f %-12s floor=%d", f.Event.TS, f.Event.EventType, f.Event.EventFloor)
		if f.Event.Rider != nil {
			fmt.Fprintf(&b, " rider=%d", *f.Event.Rider)
		}
	}
	fmt.Fprintf(&b, " car=%g (%d riders)", f.CurrentFloor, f.CarRiders.Count)

	floors := make([]int, 0, len(f.FloorRiders))
	for floor, c := range f.FloorRiders {
		if c.Count > 0 {
			floors = append(floors, floor)
		}
	}
	sort.Ints(floors)
	if len(floors) > 0 {
		parts := make([]string, len(floors))
		for i, floor := range floors {
			parts[i] = fmt.Sprintf("%d:%d", floor, f.FloorRiders[floor].Count)
		}
		fmt.Fprintf(&b, " waiting=%s", strings.Join(parts, ","))
	}
	if f.Anomaly != "" {
		fmt.Fprintf(&b, " anomaly=%q", f.Anomaly)
	}
	return b.String()
}
