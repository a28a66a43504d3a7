package sessionauth

import "errors"

var (
	// ErrInvalidCredentials is returned when the provider rejects an email
	// or password during sign-in.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnconfirmedAccount is returned when the account exists but has not
	// completed registration confirmation.
	ErrUnconfirmedAccount = errors.New("account not confirmed")
	// ErrInvalidOrExpiredCode is returned when a confirmation or reset code
	// is wrong, expired, or already used.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	// ErrWeakPassword is returned when the provider rejects a password
	// against its policy.
	ErrWeakPassword = errors.New("password does not meet requirements")
	// ErrDuplicateAccount is returned when registering an email that already
	// has an account.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrRateLimited is returned when the provider throttles the operation.
	ErrRateLimited = errors.New("too many attempts, try again later")
	// ErrInvalidInput is returned when a request fails local validation
	// before any provider call is made.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNetwork is returned when the provider cannot be reached.
	ErrNetwork = errors.New("identity provider unreachable")
	// ErrProviderNotReady is returned when the provider adapter failed its
	// bounded readiness wait; operations fail fast instead of hanging.
	ErrProviderNotReady = errors.New("identity provider not ready")
	// ErrUnknown is the non-leaking fallback for unmapped provider failures.
	ErrUnknown = errors.New("authentication failed")

	// ErrNotAuthenticated is returned by boundary queries when no usable
	// session exists and no refresh path remains.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrManagerNotReady is returned when a Manager is used before
	// [Builder.Build] wired its dependencies.
	ErrManagerNotReady = errors.New("session manager not initialized")
)

// Category is the closed taxonomy of user-facing failure classes. Every
// provider-specific error identifier maps into exactly one category; unmapped
// identifiers fall back to [CategoryUnknown].
type Category int

const (
	// CategoryUnknown is an unmapped provider failure.
	CategoryUnknown Category = iota
	// CategoryInvalidCredentials covers rejected sign-in credentials.
	CategoryInvalidCredentials
	// CategoryUnconfirmedAccount covers sign-in against unconfirmed accounts.
	CategoryUnconfirmedAccount
	// CategoryInvalidOrExpiredCode covers bad confirmation or reset codes.
	CategoryInvalidOrExpiredCode
	// CategoryWeakPassword covers provider password-policy rejections.
	CategoryWeakPassword
	// CategoryDuplicateAccount covers duplicate registrations.
	CategoryDuplicateAccount
	// CategoryRateLimited covers provider throttling.
	CategoryRateLimited
	// CategoryInvalidInput covers malformed request parameters.
	CategoryInvalidInput
	// CategoryNetworkError covers transport failures and timeouts.
	CategoryNetworkError
	// CategorySdkNotReady covers operations attempted after the readiness
	// wait was exhausted.
	CategorySdkNotReady
)

var categoryErrors = map[Category]error{
	CategoryUnknown:              ErrUnknown,
	CategoryInvalidCredentials:   ErrInvalidCredentials,
	CategoryUnconfirmedAccount:   ErrUnconfirmedAccount,
	CategoryInvalidOrExpiredCode: ErrInvalidOrExpiredCode,
	CategoryWeakPassword:         ErrWeakPassword,
	CategoryDuplicateAccount:     ErrDuplicateAccount,
	CategoryRateLimited:          ErrRateLimited,
	CategoryInvalidInput:         ErrInvalidInput,
	CategoryNetworkError:         ErrNetwork,
	CategorySdkNotReady:          ErrProviderNotReady,
}

var categoryNames = map[Category]string{
	CategoryUnknown:              "Unknown",
	CategoryInvalidCredentials:   "InvalidCredentials",
	CategoryUnconfirmedAccount:   "UnconfirmedAccount",
	CategoryInvalidOrExpiredCode: "InvalidOrExpiredCode",
	CategoryWeakPassword:         "WeakPassword",
	CategoryDuplicateAccount:     "DuplicateAccount",
	CategoryRateLimited:          "RateLimited",
	CategoryInvalidInput:         "InvalidInput",
	CategoryNetworkError:         "NetworkError",
	CategorySdkNotReady:          "SdkNotReady",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Err returns the sentinel error for the category. The sentinel message is
// the user-facing text; raw provider messages never cross this boundary.
func (c Category) Err() error {
	if err, ok := categoryErrors[c]; ok {
		return err
	}
	return ErrUnknown
}

// Transient reports whether the failure is safe to retry with the same
// input. Terminal failures require the user to change something first.
func Transient(err error) bool {
	return errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrProviderNotReady)
}
