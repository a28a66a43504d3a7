// Package identity implements the HTTP adapter to the remote identity
// provider. Every operation returns a normalized outcome: success with a
// payload, or a *sessionauth.ProviderError carrying the provider's error
// identifier. Transport failures never escape as raw errors, and every call
// runs under the configured timeout.
package identity
