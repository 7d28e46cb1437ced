package classify

import "strings"

// DomainPolicy describes how the hosting provider names its generated
// domains.
type DomainPolicy struct {
	PreviewMarker  string   // substring of every provider-generated domain
	DefaultSuffix  string   // suffix of the provider's production default domain
	BranchMarker   string   // substring of per-branch preview deployments
	LegacyAccounts []string // account slugs whose generated domains are never primary
}

func VercelPolicy() DomainPolicy {
	return DomainPolicy{
		PreviewMarker:  "vercel.app",
		DefaultSuffix:  ".vercel.app",
		BranchMarker:   "-git-",
		LegacyAccounts: []string{"pvrolomxs", "pvrolo-4909"},
	}
}

// SelectPrimary returns the first custom domain, else the first production
// default domain, else the first alias. Empty aliases are never custom or
// default domains. It returns "" for no aliases or when "" is the first.
func (p DomainPolicy) SelectPrimary(aliases []string) string {
	for _, a := range aliases {
		if a != "" && !strings.Contains(a, p.PreviewMarker) && !strings.HasPrefix(a, "www.") {
			return a
		}
	}
	for _, a := range aliases {
		if a != "" && strings.HasSuffix(a, p.DefaultSuffix) && !p.isBranchOrLegacy(a) {
			return a
		}
	}
	if len(aliases) > 0 {
		return aliases[0]
	}
	return ""
}

func (p DomainPolicy) isBranchOrLegacy(alias string) bool {
	if strings.Contains(alias, p.BranchMarker) {
		return true
	}
	for _, acct := range p.LegacyAccounts {
		if strings.Contains(alias, acct) {
			return true
		}
	}
	return false
}
