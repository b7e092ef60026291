package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/liftsim/internal/algo"
)

// listAlgorithmsTool defines the list_algorithms MCP tool.
var listAlgorithmsTool = mcp.NewTool("list_algorithms",
	mcp.WithDescription("List the dispatch algorithms the simulator can run."),
)

// runSimulationTool defines the run_simulation MCP tool.
var runSimulationTool = mcp.NewTool("run_simulation",
	mcp.WithDescription("Run a demand scenario (CSV of timestamp,source_floor,destination_floor) through a dispatch algorithm and report wait, ride and time-to-destination statistics."),
	mcp.WithString("scenario",
		mcp.Required(),
		mcp.Description("Path to the scenario CSV file"),
	),
	mcp.WithString("algorithm",
		mcp.Required(),
		mcp.Description("Dispatch algorithm to use"),
		mcp.Enum(algo.Names()...),
	),
	mcp.WithBoolean("record",
		mcp.Description("Store the result for later comparison (default true)"),
	),
)

// traceSummaryTool defines the trace_summary MCP tool.
var traceSummaryTool = mcp.NewTool("trace_summary",
	mcp.WithDescription("Summarise a recorded trace file (JSON or data.js): floors, event counts per type, riders and duration."),
	mcp.WithString("trace",
		mcp.Required(),
		mcp.Description("Path to the trace file"),
	),
)

// compareResultsTool defines the compare_results MCP tool.
var compareResultsTool = mcp.NewTool("compare_results",
	mcp.WithDescription("Compare recorded simulation runs per algorithm as a markdown table of mean and standard deviation."),
	mcp.WithString("algorithm",
		mcp.Description("Only include runs of this algorithm"),
	),
	mcp.WithString("scenario",
		mcp.Description("Only include runs of this scenario"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of runs to aggregate (default all)"),
	),
)
