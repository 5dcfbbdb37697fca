package logging

import "context"

type contextKey string

const (
	queryKey contextKey = "query"
	seqKey   contextKey = "seq"
)

// WithQuery adds a search query to the context.
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey, query)
}

// WithSeq adds a search sequence number to the context.
func WithSeq(ctx context.Context, seq uint64) context.Context {
	return context.WithValue(ctx, seqKey, seq)
}

// GetQuery retrieves the search query from the context.
// Returns empty string if not present.
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey).(string); ok {
		return q
	}
	return ""
}

// GetSeq retrieves the search sequence number from the context.
// Returns 0 if not present.
func GetSeq(ctx context.Context) uint64 {
	if seq, ok := ctx.Value(seqKey).(uint64); ok {
		return seq
	}
	return 0
}
