package identity

// Operation targets carried in the request header. The provider dispatches
// on this value, not on the URL path.
const (
	targetRegister             = "Register"
	targetConfirmRegistration  = "ConfirmRegistration"
	targetResendCode           = "ResendConfirmationCode"
	targetSignIn               = "SignIn"
	targetRefresh              = "Refresh"
	targetRequestPasswordReset = "RequestPasswordReset"
	targetConfirmPasswordReset = "ConfirmPasswordReset"
)

const (
	headerTarget    = "X-Idp-Target"
	headerClientID  = "X-Client-Id"
	headerRequestID = "X-Request-Id"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type confirmRegistrationRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resendCodeRequest struct {
	Email string `json:"email"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type confirmPasswordResetRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// tokenResponse is the payload of SignIn and Refresh. Refresh responses may
// omit refreshToken when the provider does not rotate it.
type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	IDToken      string `json:"idToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// errorResponse is the provider's non-2xx body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
