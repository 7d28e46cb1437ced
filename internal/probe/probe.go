package probe

import (
	"context"

	"github.com/hamed0406/fleetstatus/internal/domain"
)

// Failure reasons carried in Result.Reason. They are diagnostic only.
const (
	ReasonEmptyDomain = "empty_domain"
	ReasonBadRequest  = "bad_request"
	ReasonTimeout     = "timeout"
	ReasonHTTPError   = "http_error"
	ReasonHTTPStatus  = "http_status"
)

// Result is the outcome of one reachability check.
//
// Status is always live or down. StatusCode is 0 when no response arrived.
type Result struct {
	Domain     string
	Status     domain.Status
	StatusCode int
	LatencyMS  float64
	Reason     string
}

// Prober checks a single domain. Implementations never return an error:
// every failure is a down Result.
type Prober interface {
	Probe(ctx context.Context, domain string) Result
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, domain string) Result

func (f ProberFunc) Probe(ctx context.Context, domain string) Result { return f(ctx, domain) }
