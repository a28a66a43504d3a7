package middleware

import (
	"net/http"

	"github.com/prepwise/sessionauth"
)

// Transport is an http.RoundTripper that attaches a fresh bearer header to
// every outbound request, refreshing through the manager when needed. A
// request made with no usable session fails with ErrNotAuthenticated rather
// than going out unauthenticated.
type Transport struct {
	Manager *sessionauth.Manager

	// Base is the underlying transport; http.DefaultTransport when nil.
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Manager == nil {
		return nil, sessionauth.ErrManagerNotReady
	}

	header, err := t.Manager.AuthorizationHeader(req.Context())
	if err != nil {
		return nil, err
	}

	// RoundTrippers must not mutate the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", header)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}
