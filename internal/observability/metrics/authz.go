package metrics

import (
	"time"

	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
	"github.com/wayfarer-travel/wayfarer-go/internal/observability/statsd"
)

// Outcome constants for authorization metric tagging.
const (
	OutcomeAllow         = "allow"
	OutcomeRedirectLogin = "redirect_login"
	OutcomeRedirectHome  = "redirect_home"
)

// AuthzMetric captures one access-control decision for metric emission.
type AuthzMetric struct {
	Category domainauth.RouteCategory
	Outcome  string
	Duration time.Duration
}

// EmitAuthzDecision emits standardised access-control decision metrics.
func EmitAuthzDecision(sink statsd.Sink, in AuthzMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"category": string(in.Category),
		"outcome":  in.Outcome,
	}

	sink.Count("authz.decision", 1, tags)

	if in.Duration > 0 {
		sink.Timing("authz.duration", in.Duration, tags)
	}
}

// OutcomeForVerdict maps a verdict to its metric outcome tag.
func OutcomeForVerdict(v domainauth.Verdict) string {
	switch {
	case v.Allowed():
		return OutcomeAllow
	case v.RedirectURL == "/":
		return OutcomeRedirectHome
	default:
		return OutcomeRedirectLogin
	}
}
