// Package middleware wires a sessionauth.Manager into net/http consumers:
// a route guard for protected views and a RoundTripper that stamps outbound
// API calls with a fresh bearer header.
package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/prepwise/sessionauth"
)

type principalContextKey struct{}

// PrincipalFromContext returns the principal injected by Guard.
func PrincipalFromContext(ctx context.Context) (sessionauth.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(sessionauth.Principal)
	return p, ok
}

// GuardConfig controls how unauthenticated requests are answered.
type GuardConfig struct {
	// SignInPath is the entry view unauthenticated browsers are sent to.
	SignInPath string
	// NextParam names the query parameter carrying the intended
	// destination, so the entry view can return the user after sign-in.
	// Defaults to "next".
	NextParam string
	// APIMode answers 401 instead of redirecting; for JSON consumers.
	APIMode bool
}

// Guard protects a view: unauthenticated requests are redirected to the
// sign-in view (or answered 401 in APIMode), authenticated ones proceed
// with the principal in the request context.
//
// The guard decides presence of a session only. Any role carried by the
// principal is display data; authorization is enforced server-side by the
// API validating the bearer token.
func Guard(manager *sessionauth.Manager, cfg GuardConfig) func(http.Handler) http.Handler {
	if cfg.NextParam == "" {
		cfg.NextParam = "next"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil || !manager.IsAuthenticated(r.Context()) {
				deny(w, r, cfg)
				return
			}

			principal, ok := manager.CurrentPrincipal(r.Context())
			if !ok {
				deny(w, r, cfg)
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, cfg GuardConfig) {
	if cfg.APIMode || cfg.SignInPath == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	target := cfg.SignInPath + "?" + cfg.NextParam + "=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusFound)
}
