package mcp

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ziadkadry99/liftsim/internal/algo"
	"github.com/ziadkadry99/liftsim/internal/monitor"
	"github.com/ziadkadry99/liftsim/internal/results"
	"github.com/ziadkadry99/liftsim/internal/sim"
	"github.com/ziadkadry99/liftsim/internal/trace"
)

// handleListAlgorithms returns the registered algorithm names, one per line.
func (s *Server) handleListAlgorithms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(strings.Join(algo.Names(), "\n")), nil
}

// handleRunSimulation runs a scenario file and returns its statistics.
func (s *Server) handleRunSimulation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scenario, err := request.RequireString("scenario")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: scenario"), nil
	}
	name, err := request.RequireString("algorithm")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: algorithm"), nil
	}
	if !algo.Known(name) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown algorithm %q (known: %s)", name, strings.Join(algo.Names(), ", "))), nil
	}
	if _, err := os.Stat(scenario); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scenario %q not readable: %v", scenario, err)), nil
	}

	_, res, err := sim.RunFile(ctx, s.elevator, name, scenario, sim.WithLogger(s.logger))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("simulation failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Algorithm: %s\nScenario: %s\nFloors: %d\n\n", res.Algorithm, res.Scenario, res.Floors)
	if err := monitor.WriteStats(&b, res.Stats); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("formatting stats: %v", err)), nil
	}

	if s.store != nil && request.GetBool("record", true) {
		run := results.FromResult(*res)
		if err := s.store.Record(ctx, run); err != nil {
			s.logger.Warn("recording run", zap.Error(err))
			fmt.Fprintf(&b, "\nRun not recorded: %v\n", err)
		} else {
			fmt.Fprintf(&b, "\nRecorded as run %s\n", run.ID)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

// handleTraceSummary loads a trace file and describes it.
func (s *Server) handleTraceSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("trace")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: trace"), nil
	}

	tr, err := trace.Load(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading trace: %v", err)), nil
	}
	return mcp.NewToolResultText(formatSummary(tr.Summary())), nil
}

// handleCompareResults aggregates recorded runs per algorithm.
func (s *Server) handleCompareResults(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("no results database configured"), nil
	}

	runs, err := s.store.List(ctx, results.Filter{
		Algorithm: request.GetString("algorithm", ""),
		Scenario:  request.GetString("scenario", ""),
		Limit:     request.GetInt("limit", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing runs: %v", err)), nil
	}
	if len(runs) == 0 {
		return mcp.NewToolResultText("No recorded runs. Use run_simulation or `liftsim batch` to record some."), nil
	}

	return mcp.NewToolResultText(results.RenderMarkdown(results.Compare(runs))), nil
}

func formatSummary(sum trace.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Floors: %d (initial %d)\n", sum.Floors, sum.InitialFloor)
	fmt.Fprintf(&b, "Riders: %d\n", sum.Riders)
	fmt.Fprintf(&b, "Events: %d\n", sum.Events)
	fmt.Fprintf(&b, "Duration: %.2fs\n", sum.Duration)

	types := make([]string, 0, len(sum.ByType))
	for t := range sum.ByType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(&b, "  %s: %d\n", t, sum.ByType[trace.EventType(t)])
	}
	return b.String()
}
