package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/liftsim/internal/server"
	"github.com/ziadkadry99/liftsim/internal/trace"
	"github.com/ziadkadry99/liftsim/internal/viewer"
)

var replayCmd = &cobra.Command{
	Use:   "replay [trace]",
	Short: "Serve the browser visualizer for a trace",
	Long:  `Starts an HTTP server with the canvas visualizer for a trace written by simulate (JSON or data.js).`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := defaultTracePath(cfg)
	if len(args) == 1 {
		path = args[0]
	}
	port := cfg.Server.Port
	if p, _ := cmd.Flags().GetInt("port"); p > 0 {
		port = p
	}

	tr, err := trace.Load(path)
	if err != nil {
		return err
	}
	v, err := viewer.New(tr, viewerLayout(cfg), logger, 0)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:     port,
		DataDir:  cfg.OutputDir,
		AllowAll: cfg.Server.AllowAllOrigins,
	}, nil, logger)
	v.RegisterRoutes(srv.Router())

	fmt.Fprintf(os.Stderr, "Replaying %s (%d events) at http://localhost:%d/\n", path, len(tr.Events), port)
	return serveUntilSignal(srv)
}

// serveUntilSignal runs srv until SIGINT or SIGTERM, then shuts it down.
func serveUntilSignal(srv *server.Server) error {
	ctx, stop := signalContext()
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
