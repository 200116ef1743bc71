package logging

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	generationKey contextKey = "generation"
	evalInfoKey   contextKey = "eval_info"
)

// WithRunID attaches an evolutionary run identifier to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID extracts the run identifier from the context.
func GetRunID(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(runIDKey).(string)
	return runID, ok
}

// WithGeneration attaches the current generation number to the context.
func WithGeneration(ctx context.Context, gen int) context.Context {
	return context.WithValue(ctx, generationKey, gen)
}

// GetGeneration extracts the generation number from the context.
func GetGeneration(ctx context.Context) (int, bool) {
	gen, ok := ctx.Value(generationKey).(int)
	return gen, ok
}

// WithEvalInfo attaches evaluation counters to the context.
func WithEvalInfo(ctx context.Context, info *EvalInfo) context.Context {
	return context.WithValue(ctx, evalInfoKey, info)
}

// GetEvalInfo extracts evaluation counters from the context.
func GetEvalInfo(ctx context.Context) (*EvalInfo, bool) {
	info, ok := ctx.Value(evalInfoKey).(*EvalInfo)
	return info, ok
}
