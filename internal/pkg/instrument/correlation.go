package instrument

import "context"

type correlationIDContextKey struct{}

// SetCorrelationID stores the request correlation ID in the context so log
// records and downstream calls can carry it.
func SetCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey{}, id)
}

// GetCorrelationID returns the correlation ID stored in the context, or an
// empty string when none is set.
func GetCorrelationID(ctx context.Context) string {
	id, ok := ctx.Value(correlationIDContextKey{}).(string)
	if !ok {
		return ""
	}

	return id
}
