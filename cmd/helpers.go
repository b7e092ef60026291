package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ziadkadry99/liftsim/internal/config"
	"github.com/ziadkadry99/liftsim/internal/db"
	"github.com/ziadkadry99/liftsim/internal/replay"
	"github.com/ziadkadry99/liftsim/internal/results"
	"github.com/ziadkadry99/liftsim/internal/trace"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `liftsim init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openStore opens the results database in the output directory.
func openStore(cfg *config.Config) (*results.Store, *db.DB, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating output dir: %w", err)
	}
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return results.NewStore(database), database, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// writeTrace writes tr as the data.js page script when path ends in .js,
// and as plain JSON otherwise.
func writeTrace(tr *trace.Trace, path string) error {
	if err := tr.ValidateStrict(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating trace dir: %w", err)
		}
	}
	if strings.EqualFold(filepath.Ext(path), ".js") {
		return tr.WriteDataJS(path)
	}
	return tr.WriteJSON(path)
}

// defaultTracePath is where simulate writes and replay reads by default.
func defaultTracePath(cfg *config.Config) string {
	return filepath.Join(cfg.OutputDir, "trace.json")
}

// viewerLayout is the default canvas geometry with the configured speed.
func viewerLayout(cfg *config.Config) replay.Layout {
	l := replay.DefaultLayout()
	l.FloorsPerSecond = cfg.Viewer.FloorsPerSecond
	return l
}
