package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - User-facing output only: results, errors with hints
//	1 (-v)      - + Progress, startup info, subscription lifecycle
//	2 (-vv)     - + Timing, config loaded, db stats
//	3 (-vvv)    - + gRPC calls, publish fan-out, internal flow
//	4 (-vvvv)   - + SQL queries, full request/response bodies, data dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Query results, command output
	OutputErrors                           // Errors with hints and resolution steps
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress      // Progress indicators
	OutputStartup       // Startup banners, config summary
	OutputSubscription  // Subscription opened/closed/state transitions
	OutputOperationInfo // High-level operation summaries

	// Level 2 (-vv) - Detailed
	OutputTiming  // Operation timing (e.g., "query took 42ms")
	OutputConfig  // Config values loaded/applied
	OutputDBStats // Database statistics and connection info

	// Level 3 (-vvv) - Debug
	OutputGRPCMethod   // gRPC method calls (method name, timing)
	OutputGRPCStatus   // gRPC response status
	OutputPublish      // Publisher fan-out to subscribers
	OutputInternalFlow // Internal operation flow (function entry/exit)

	// Level 4 (-vvvv) - Full dump
	OutputSQLQueries // Full SQL queries executed
	OutputSQLResults // SQL query result summaries
	OutputGRPCBody   // Full gRPC request/response bodies
	OutputDataDump   // Full data structure contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	// Level 0 - Always shown
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	// Level 1 - Informational
	OutputProgress:      VerbosityInfo,
	OutputStartup:       VerbosityInfo,
	OutputSubscription:  VerbosityInfo,
	OutputOperationInfo: VerbosityInfo,

	// Level 2 - Detailed
	OutputTiming:  VerbosityDebug,
	OutputConfig:  VerbosityDebug,
	OutputDBStats: VerbosityDebug,

	// Level 3 - Debug
	OutputGRPCMethod:   VerbosityTrace,
	OutputGRPCStatus:   VerbosityTrace,
	OutputPublish:      VerbosityTrace,
	OutputInternalFlow: VerbosityTrace,

	// Level 4 - Full dump
	OutputSQLQueries: VerbosityAll,
	OutputSQLResults: VerbosityAll,
	OutputGRPCBody:   VerbosityAll,
	OutputDataDump:   VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputResults:       "results",
	OutputErrors:        "errors",
	OutputUserStatus:    "status",
	OutputProgress:      "progress",
	OutputStartup:       "startup",
	OutputSubscription:  "subscription",
	OutputOperationInfo: "operation-info",
	OutputTiming:        "timing",
	OutputConfig:        "config",
	OutputDBStats:       "db-stats",
	OutputGRPCMethod:    "grpc-method",
	OutputGRPCStatus:    "grpc-status",
	OutputPublish:       "publish",
	OutputInternalFlow:  "internal-flow",
	OutputSQLQueries:    "sql-queries",
	OutputSQLResults:    "sql-results",
	OutputGRPCBody:      "grpc-body",
	OutputDataDump:      "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// EnabledCategories returns all output categories enabled at the given verbosity
func EnabledCategories(verbosity int) []OutputCategory {
	var enabled []OutputCategory
	for cat, minLevel := range categoryLevels {
		if verbosity >= minLevel {
			enabled = append(enabled, cat)
		}
	}
	return enabled
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "results and errors only"
	case VerbosityInfo:
		return "results, errors, progress, subscription lifecycle"
	case VerbosityDebug:
		return "above + timing, config, db stats"
	case VerbosityTrace:
		return "above + gRPC calls, publish fan-out"
	case VerbosityAll:
		return "above + SQL queries, full bodies"
	default:
		if verbosity > VerbosityAll {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}

// Timing helpers

// SlowThresholdMS is the threshold in milliseconds above which timing is always shown
const SlowThresholdMS = 100

// ShouldShowTiming returns true if timing info should be displayed.
// Shows if: verbosity >= 2 (-vv) OR operation exceeded slow threshold.
func ShouldShowTiming(verbosity int, durationMS int64) bool {
	if durationMS >= SlowThresholdMS {
		return true // Always show slow operations
	}
	return ShouldOutput(verbosity, OutputTiming)
}

// ShouldShowTimingAlways returns true if timing should always be shown (slow operation)
func ShouldShowTimingAlways(durationMS int64) bool {
	return durationMS >= SlowThresholdMS
}
