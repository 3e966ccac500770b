package internaldefs

import (
	canopyauth "github.com/canopyhq/canopyauth"
)

// CounterDef maps an engine counter to its exported name and help text.
type CounterDef struct {
	ID   canopyauth.MetricID
	Name string
	Help string
}

// HistogramDef maps an engine histogram to its exported name and help text.
type HistogramDef struct {
	ID   canopyauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter, in exposition order.
var CounterDefs = []CounterDef{
	{ID: canopyauth.MetricLoginSuccess, Name: "canopyauth_login_success_total", Help: "Successful login attempts."},
	{ID: canopyauth.MetricLoginFailure, Name: "canopyauth_login_failure_total", Help: "Failed login attempts."},
	{ID: canopyauth.MetricRegisterSuccess, Name: "canopyauth_register_success_total", Help: "Created accounts."},
	{ID: canopyauth.MetricRegisterDuplicate, Name: "canopyauth_register_duplicate_total", Help: "Registrations rejected on a uniqueness key."},
	{ID: canopyauth.MetricRegisterInvalid, Name: "canopyauth_register_invalid_total", Help: "Registrations rejected by field validation."},
	{ID: canopyauth.MetricLogout, Name: "canopyauth_logout_total", Help: "Logout operations."},
	{ID: canopyauth.MetricTokenRevoked, Name: "canopyauth_token_revoked_total", Help: "Session tokens added to the revocation denylist."},
	{ID: canopyauth.MetricAuthorizeSuccess, Name: "canopyauth_authorize_success_total", Help: "Session guard passes."},
	{ID: canopyauth.MetricAuthorizeUnauthenticated, Name: "canopyauth_authorize_unauthenticated_total", Help: "Session guard rejections for invalid sessions."},
	{ID: canopyauth.MetricAuthorizeForbidden, Name: "canopyauth_authorize_forbidden_total", Help: "Session guard rejections for role mismatch."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: canopyauth.MetricAuthorizeLatency, Name: "canopyauth_authorize_latency_seconds", Help: "Authorize latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, exposition form.
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

// HistogramBoundSuffix are the bound renderings safe for metric name suffixes.
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

// CumulativeBuckets converts per-bucket counts into the cumulative form the
// Prometheus exposition format requires.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
