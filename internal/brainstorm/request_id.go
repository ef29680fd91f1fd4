package brainstorm

import "context"

type ctxKey int

const requestIDCtxKey ctxKey = iota

// WithRequestID tags ctx with the inbound request ID so coordinator logs
// and outbound backend calls can be correlated with it. An empty id leaves
// ctx unchanged.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDCtxKey, id)
}

// RequestID returns the ID stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}
