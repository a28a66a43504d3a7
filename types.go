package sessionauth

import (
	"context"
	"time"
)

// Provider error codes synthesized by the adapter itself rather than
// returned by the remote provider.
const (
	// ProviderCodeNetwork marks transport-level failures (DNS, dial,
	// timeout) on a provider call.
	ProviderCodeNetwork = "NetworkError"
	// ProviderCodeNotReady marks calls made after the bounded readiness
	// wait was exhausted.
	ProviderCodeNotReady = "NotReady"
)

// ProviderError is the normalized failure every [IdentityClient] operation
// returns. Code is a provider error identifier (or one of the ProviderCode
// constants); Message is the raw provider text and must never be shown to
// users directly. It exists for [Translate] heuristics and audit trails.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// TokenBundle carries the token material minted by a successful sign-in or
// refresh. Refresh responses may omit RefreshToken, in which case the
// existing one stays valid and is retained.
type TokenBundle struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	ExpiresIn    int64 // access token lifetime in seconds
}

// IdentityClient is the adapter to the remote identity provider. Every
// operation returns either success or a *ProviderError; implementations must
// catch transport failures and convert them rather than letting them escape.
// The identity subpackage provides the HTTP implementation.
type IdentityClient interface {
	Register(ctx context.Context, email, password string) error
	ConfirmRegistration(ctx context.Context, email, code string) error
	ResendConfirmationCode(ctx context.Context, email string) error
	SignIn(ctx context.Context, email, password string) (TokenBundle, error)
	Refresh(ctx context.Context, refreshToken string) (TokenBundle, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error
}

// Principal identifies the signed-in user. Role is decoded from id-token
// claims for display convenience only; it is never an authorization
// boundary. Role checks belong to the server consuming the bearer token.
type Principal struct {
	Email string
	Role  string
}

// SignInResult is returned by [Manager.SignIn] on success.
type SignInResult struct {
	Email     string
	ExpiresAt time.Time // absolute access-token expiry
}

// State is the session lifecycle state. The machine has no terminal state;
// it cycles for the life of the process.
type State uint8

const (
	// StateAnonymous means no session exists.
	StateAnonymous State = iota
	// StateAuthenticating means a sign-in call is in flight.
	StateAuthenticating
	// StateAuthenticated means a structurally valid record is held.
	StateAuthenticated
	// StateRefreshing means a refresh call is in flight.
	StateRefreshing
	// StatePendingConfirmation means registration succeeded and the account
	// awaits its confirmation code.
	StatePendingConfirmation
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	case StatePendingConfirmation:
		return "pending_confirmation"
	default:
		return "unknown"
	}
}
