package service

import "context"

type runIDKey struct{}

var runIDCtxKey = runIDKey{}

// WithRunID attaches a patch run id to context for diagnostics.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDCtxKey, id)
}

// RunID retrieves the patch run id from context.
func RunID(ctx context.Context) string {
	v := ctx.Value(runIDCtxKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
