package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/pantrylabs/pantry/pkg/jwtx"
	"github.com/pantrylabs/pantry/pkg/slogx"
)

// PrincipalResolver materialises an identity from a validated token's subject
// claim. Resolution failure means the subject no longer exists (or the lookup
// store is down); either way the request proceeds unauthenticated.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, subject string) (Identity, error)
}

// AuthnMiddleware authenticates bearer requests. Paths matching one of the
// excluded prefixes bypass authentication entirely. For everything else the
// middleware extracts the Authorization bearer token, verifies it, requires
// the access category, resolves the principal, and attaches an Identity to
// the request context.
//
// It never aborts the pipeline: a missing, malformed, expired, wrong-category
// or unresolvable token simply leaves the request unauthenticated and lets
// the route's own authorization (RequireAuth/RequireRole) produce the user
// visible rejection. That way public and protected routes share one filter.
func AuthnMiddleware(v jwtx.Verifier, resolver PrincipalResolver, excludedPrefixes []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasExcludedPrefix(r.URL.Path, excludedPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Debug("bearer token rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			// Refresh tokens are only valid as reissue/logout input,
			// never as a bearer credential for resource access.
			if !claims.IsAccess() {
				log.Warn("non-access token presented as bearer credential")
				next.ServeHTTP(w, r)
				return
			}

			identity, err := resolver.ResolvePrincipal(ctx, claims.Subject)
			if err != nil {
				log.Warn("principal resolution failed", "subject", claims.Subject, "err", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, identity)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	return token, token != ""
}

func hasExcludedPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
