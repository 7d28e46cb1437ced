package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

const (
	DNSResolves       = "RESOLVES"
	DNSNXDomain       = "NXDOMAIN"
	DNSNoARecord      = "NO_A_RECORD"
	DNSServfailOrTime = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName    = "INVALID_NAME"
)

// DNSStatus explains how a host resolved. Class is one of the DNS* constants.
type DNSStatus struct {
	Domain        string
	Class         string
	IPs           []net.IP
	CNAME         string
	Nameservers   []string
	ResolverError string
}

var dnsTimeout = 3 * time.Second

// resolver is swapped in tests.
var resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
} = net.DefaultResolver

// CheckDNS looks up addresses, CNAME and nameservers of host within
// dnsTimeout or the deadline of ctx, whichever is sooner. It only explains
// down results and never decides liveness.
func CheckDNS(ctx context.Context, host string) DNSStatus {
	s := DNSStatus{Domain: strings.TrimSpace(host)}
	if !plausibleHost(s.Domain) {
		s.Class = DNSInvalidName
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()

	ips, ipErr := resolver.LookupIP(ctx, "ip", s.Domain)
	s.IPs = ips
	if ipErr != nil {
		s.ResolverError = ipErr.Error()
	}
	if cname, err := resolver.LookupCNAME(ctx, s.Domain); err == nil {
		if cname = strings.TrimSuffix(cname, "."); !strings.EqualFold(cname, s.Domain) {
			s.CNAME = cname
		}
	}
	if ns, err := resolver.LookupNS(ctx, s.Domain); err == nil {
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
	}

	s.Class = classifyDNS(len(ips) > 0, len(s.Nameservers) > 0, ipErr)
	return s
}

// classifyDNS maps lookup outcomes to a class. A zone that is delegated but
// publishes no address is NO_A_RECORD; a resolver failure other than "not
// found" is SERVFAIL_or_TIMEOUT.
func classifyDNS(hasAddr, hasNS bool, ipErr error) string {
	if hasAddr {
		return DNSResolves
	}
	var de *net.DNSError
	notFound := ipErr == nil || (errors.As(ipErr, &de) && de.IsNotFound)
	switch {
	case !notFound:
		return DNSServfailOrTime
	case hasNS:
		return DNSNoARecord
	default:
		return DNSNXDomain
	}
}

func plausibleHost(h string) bool {
	return h != "" && len(h) <= 253 && !strings.ContainsAny(h, " /:\\?#@")
}
