package middleware

import "context"

type clientIDKey struct{}

// ClientIDFromContext returns the shopper identity set by ClientID, or "".
func ClientIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	clientID, _ := ctx.Value(clientIDKey{}).(string)
	return clientID
}

// WithClientID injects the shopper identity; handler tests use it directly.
func WithClientID(ctx context.Context, clientID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, clientIDKey{}, clientID)
}
