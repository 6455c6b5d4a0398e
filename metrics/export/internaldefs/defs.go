package internaldefs

import (
	"github.com/MrEthical07/giftauth"
)

// CounterDef names one engine counter for exporters.
type CounterDef struct {
	ID   giftauth.MetricID
	Name string
	Help string
}

// HistogramDef names one engine latency histogram for exporters.
type HistogramDef struct {
	ID   giftauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: giftauth.MetricLoginCodeIssued, Name: "giftauth_login_code_issued_total", Help: "Freshly minted login codes."},
	{ID: giftauth.MetricLoginCodeReused, Name: "giftauth_login_code_reused_total", Help: "Login code requests answered with the live code."},
	{ID: giftauth.MetricPrincipalRegistered, Name: "giftauth_principal_registered_total", Help: "Principals registered on login code request."},
	{ID: giftauth.MetricLoginSuccess, Name: "giftauth_login_success_total", Help: "Successful logins."},
	{ID: giftauth.MetricLoginFailure, Name: "giftauth_login_failure_total", Help: "Logins rejected for a wrong or expired code."},
	{ID: giftauth.MetricLoginRateLimited, Name: "giftauth_login_rate_limited_total", Help: "Logins rejected by the failure budget."},
	{ID: giftauth.MetricTokenIssued, Name: "giftauth_token_issued_total", Help: "Freshly minted bearer tokens."},
	{ID: giftauth.MetricTokenReused, Name: "giftauth_token_reused_total", Help: "Logins answered with the live bearer token."},
	{ID: giftauth.MetricAuthenticateSuccess, Name: "giftauth_authenticate_success_total", Help: "Bearer headers resolved to a principal."},
	{ID: giftauth.MetricAuthenticateFailure, Name: "giftauth_authenticate_failure_total", Help: "Rejected bearer headers."},
	{ID: giftauth.MetricLogout, Name: "giftauth_logout_total", Help: "Token revocations."},
	{ID: giftauth.MetricRateLimitHit, Name: "giftauth_rate_limit_hit_total", Help: "Rate-limit checks that denied requests."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: giftauth.MetricAuthenticateLatency, Name: "giftauth_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// AuditDroppedName is the counter exported for dispatcher drops.
const AuditDroppedName = "giftauth_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// HistogramUpperBounds are the finite bucket bounds in seconds. The eighth
// engine bucket is +Inf.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names each bucket, +Inf included, for exporters that
// flatten buckets into separate instruments.
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

// NormalizeBuckets copies raw into a fixed eight-bucket array, zero-filling
// missing entries.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
