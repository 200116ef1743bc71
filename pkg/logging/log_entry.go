package logging

// LogEntry represents a structured log record with fields particularly
// relevant to evolutionary runs.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Run-specific fields
	RunID      string    // Identifier of the evolutionary run
	Generation int       // Generation the entry was emitted in (-1 if unset)
	EvalInfo   *EvalInfo // Evaluation counters for cost monitoring

	// General structured data
	Fields map[string]interface{}
}

// EvalInfo tracks evaluator invocations, the dominant cost of a run.
type EvalInfo struct {
	Evaluations int
	Failures    int
	ZeroTrades  int
}
