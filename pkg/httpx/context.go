package httpx

import "context"

// Identity is the authenticated identity attached to a request by the
// authentication middleware and consumed by downstream authorization checks.
// Its lifetime is exactly one request; it is never cached across requests.
type Identity struct {
	Subject  string // principal identifier (ULID)
	Username string
	Role     string
}

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// ContextWithIdentity attaches the authenticated identity to ctx.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the authenticated identity for the request, if
// any. ok is false for unauthenticated requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}
