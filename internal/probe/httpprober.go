package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hamed0406/fleetstatus/internal/domain"
)

const DefaultTimeout = 5 * time.Second

type HTTPProber struct {
	Client   *http.Client
	Timeout  time.Duration
	Diagnose bool // on down results, append the DNS class of the host to Reason
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	// No Client.Timeout: the deadline lives on the request context.
	return &HTTPProber{Client: &http.Client{}, Timeout: timeout}
}

// Probe sends one HEAD request to https://{domain}, following redirects.
// A 2xx response, or a final 307/308, is live. The whole call, DNS
// diagnostics included, is bounded by Timeout.
func (h *HTTPProber) Probe(ctx context.Context, host string) Result {
	if strings.TrimSpace(host) == "" {
		return Result{Domain: host, Status: domain.StatusDown, Reason: ReasonEmptyDomain}
	}

	pctx, cancel := context.WithTimeout(ctx, h.timeout())
	defer cancel()

	res := h.probe(pctx, host)
	// diagnostics only spend what is left of the deadline
	if res.Status == domain.StatusDown && h.Diagnose && pctx.Err() == nil {
		dns := CheckDNS(pctx, hostOnly(host))
		res.Reason = fmt.Sprintf("%s dns=%s", res.Reason, dns.Class)
	}
	return res
}

// probe runs the request under pctx, which already carries the deadline.
func (h *HTTPProber) probe(pctx context.Context, host string) Result {
	res := Result{Domain: host, Status: domain.StatusDown}

	start := time.Now()
	req, err := http.NewRequestWithContext(pctx, http.MethodHead, "https://"+host, nil)
	if err != nil {
		res.Reason = ReasonBadRequest
		return res
	}

	resp, err := h.client().Do(req)
	res.LatencyMS = time.Since(start).Seconds() * 1000
	if err != nil {
		res.Reason = ReasonHTTPError
		if errors.Is(pctx.Err(), context.DeadlineExceeded) {
			res.Reason = ReasonTimeout
		}
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	res.Reason = ReasonHTTPStatus
	if IsLiveStatus(resp.StatusCode) {
		res.Status = domain.StatusLive
	}
	return res
}

// IsLiveStatus reports whether an HTTP status means the site is reachable.
// 307 and 308 count: the target is answering and redirecting correctly.
func IsLiveStatus(code int) bool {
	if code >= 200 && code < 300 {
		return true
	}
	return code == http.StatusTemporaryRedirect || code == http.StatusPermanentRedirect
}

func (h *HTTPProber) timeout() time.Duration {
	if h.Timeout <= 0 {
		return DefaultTimeout
	}
	return h.Timeout
}

func (h *HTTPProber) client() *http.Client {
	if h.Client == nil {
		return http.DefaultClient
	}
	return h.Client
}

func hostOnly(host string) string {
	if i := strings.IndexAny(host, "/:?#"); i >= 0 {
		return host[:i]
	}
	return host
}
