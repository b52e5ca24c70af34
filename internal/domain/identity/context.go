package identity

import "context"

type contextKey struct{}

// WithCaller returns a child context carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the caller stored by WithCaller. The zero Caller is
// returned when none is present; it fails Authenticated.
func FromContext(ctx context.Context) Caller {
	c, _ := ctx.Value(contextKey{}).(Caller)
	return c
}
