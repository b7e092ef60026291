package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/liftsim/internal/results"
	"github.com/ziadkadry99/liftsim/internal/server"
	"github.com/ziadkadry99/liftsim/internal/trace"
	"github.com/ziadkadry99/liftsim/internal/viewer"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the results and simulation server",
	Long: `Starts the liftsim HTTP server with the results API, on-demand simulation
of scenarios below --scenarios, and optionally the visualizer for a trace.`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serverCmd.Flags().String("scenarios", ".", "directory POST /api/simulations may read scenarios from")
	serverCmd.Flags().String("trace", "", "also serve the visualizer for this trace")
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	port := cfg.Server.Port
	if p, _ := cmd.Flags().GetInt("port"); p > 0 {
		port = p
	}
	scenarios, _ := cmd.Flags().GetString("scenarios")
	tracePath, _ := cmd.Flags().GetString("trace")

	store, database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	srv := server.New(server.Config{
		Port:     port,
		DataDir:  cfg.OutputDir,
		AllowAll: cfg.Server.AllowAllOrigins,
	}, database, logger)

	results.RegisterRoutes(srv.Router(), store, &results.Simulations{
		Elevator: cfg.Elevator.Kinematics(),
		Root:     scenarios,
	})

	if tracePath != "" {
		tr, err := trace.Load(tracePath)
		if err != nil {
			return err
		}
		v, err := viewer.New(tr, viewerLayout(cfg), logger, 0)
		if err != nil {
			return err
		}
		v.RegisterRoutes(srv.Router())
	}

	fmt.Fprintf(os.Stderr, "liftsim server %s starting on port %d\n", Version, port)
	fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
	fmt.Fprintf(os.Stderr, "  Scenarios: %s\n", scenarios)
	if tracePath != "" {
		fmt.Fprintf(os.Stderr, "  Viewer: %s\n", tracePath)
	}

	return serveUntilSignal(srv)
}
