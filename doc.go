// Package sessionauth manages a single authenticated session against a
// remote identity provider: sign-up, confirmation, sign-in, proactive token
// refresh, password reset, and sign-out, with the resulting credentials held
// in one durable store slot.
//
// The package is designed for client-side workloads: a [Manager] is built
// once through [Builder.Build], passed explicitly to consumers, and is safe
// to use from multiple goroutines. Concurrent requests for a bearer header
// share a single in-flight refresh; a failed refresh tears the session down
// rather than leaving a half-valid record behind.
//
// The remote provider is abstracted by [IdentityClient]; the identity
// subpackage ships an HTTP implementation. Credential persistence is
// abstracted by credstore.Store with file, redis, and in-memory backends.
package sessionauth
