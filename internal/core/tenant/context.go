package tenant

import (
	"context"
	"errors"
)

type ctxKey struct{}

// ErrNoTenantInContext is returned when an operation runs outside a
// tenant-resolved request scope.
var ErrNoTenantInContext = errors.New("tenant not found in context")

// WithTenant stores the resolved tenant in the context. The middleware calls
// this once per inbound request; core services receive the tenant as an
// explicit argument and never read ambient state themselves.
func WithTenant(ctx context.Context, t ID) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the resolved tenant.
func FromContext(ctx context.Context) (ID, error) {
	t, ok := ctx.Value(ctxKey{}).(ID)
	if !ok || !t.IsValid() {
		return "", ErrNoTenantInContext
	}
	return t, nil
}

// MustFromContext returns the resolved tenant or panics.
// Use in handlers that always run behind the tenant middleware.
func MustFromContext(ctx context.Context) ID {
	t, err := FromContext(ctx)
	if err != nil {
		panic("tenant not in context: " + err.Error())
	}
	return t
}
