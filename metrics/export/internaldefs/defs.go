package internaldefs

import (
	sessionauth "github.com/prepwise/sessionauth"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   sessionauth.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   sessionauth.MetricID
	Name string
	Help string
}

// CounterDefs is the canonical counter name table. Exporters iterate it in
// order so output stays stable across releases.
var CounterDefs = []CounterDef{
	{ID: sessionauth.MetricSignInSuccess, Name: "sessionauth_sign_in_success_total", Help: "Successful sign-ins."},
	{ID: sessionauth.MetricSignInFailure, Name: "sessionauth_sign_in_failure_total", Help: "Failed sign-in attempts."},
	{ID: sessionauth.MetricRegisterSuccess, Name: "sessionauth_register_success_total", Help: "Successful registrations."},
	{ID: sessionauth.MetricRegisterFailure, Name: "sessionauth_register_failure_total", Help: "Failed registrations."},
	{ID: sessionauth.MetricConfirmSuccess, Name: "sessionauth_confirm_success_total", Help: "Successful registration confirmations."},
	{ID: sessionauth.MetricConfirmFailure, Name: "sessionauth_confirm_failure_total", Help: "Failed registration confirmations, including locally rejected codes."},
	{ID: sessionauth.MetricResendConfirmation, Name: "sessionauth_resend_confirmation_total", Help: "Confirmation-code resend requests."},
	{ID: sessionauth.MetricRefreshSuccess, Name: "sessionauth_refresh_success_total", Help: "Successful token refreshes."},
	{ID: sessionauth.MetricRefreshFailure, Name: "sessionauth_refresh_failure_total", Help: "Failed token refreshes."},
	{ID: sessionauth.MetricRefreshCoalesced, Name: "sessionauth_refresh_coalesced_total", Help: "Header requests that attached to an in-flight refresh."},
	{ID: sessionauth.MetricSignOut, Name: "sessionauth_sign_out_total", Help: "Sign-out operations."},
	{ID: sessionauth.MetricPasswordResetRequest, Name: "sessionauth_password_reset_request_total", Help: "Password reset requests."},
	{ID: sessionauth.MetricPasswordResetSuccess, Name: "sessionauth_password_reset_success_total", Help: "Successful password reset confirmations."},
	{ID: sessionauth.MetricPasswordResetFailure, Name: "sessionauth_password_reset_failure_total", Help: "Failed password reset confirmations."},
	{ID: sessionauth.MetricSessionTeardown, Name: "sessionauth_session_teardown_total", Help: "Sessions cleared after a failed refresh."},
}

// HistogramDefs is the canonical histogram name table.
var HistogramDefs = []HistogramDef{
	{ID: sessionauth.MetricProviderLatency, Name: "sessionauth_provider_latency_seconds", Help: "Identity provider round-trip latency histogram."},
}

// HistogramBounds are the le labels of the latency buckets, in seconds.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are metric-name-safe spellings of HistogramBounds.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// both exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
