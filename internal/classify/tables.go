package classify

import "github.com/hamed0406/fleetstatus/internal/domain"

// DefaultRules are the brand-domain rules, highest priority first.
func DefaultRules() []AliasRule {
	return []AliasRule{
		{Substring: "duendes.app", Category: domain.CategoryDuendes},
		{Substring: "castlesolutions", Category: domain.CategoryCastle},
		{Substring: "expatadvisor", Category: domain.CategoryExpat},
		{Substring: "psicmarielapm", Category: domain.CategoryClient},
	}
}

// DefaultTables are consulted only when no alias rule matched.
func DefaultTables() []NameTable {
	return []NameTable{
		NewNameTable(domain.CategoryDuendes,
			"colmena-dashboard", "supply-shock", "corporate-decay", "fantasma",
			"lluvia-alert", "hexadecision", "numera", "kin-maya", "tarot-ceo",
			"oraculo", "whatsduendesapp", "email-service", "duende-v1", "duende-v2",
			"astro4", "cal-pay", "medicompara", "colorsnap", "anfitrion-mx",
			"profeapp", "hcrpv", "rolo-payments",
		),
		NewNameTable(domain.CategoryCastle,
			"castle-solutions", "castle-checkin", "castle-ops", "castle-payments",
		),
		NewNameTable(domain.CategoryLegacy,
			"development-solutions", "real-estate-solutions-pearl", "legal-solutions-ten",
			"legal-solutions", "notaria-solutions", "notaria-solutions-template",
			"desarrollo-angeles", "btc-eyes", "que-app-necesito",
		),
	}
}

func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules(), DefaultTables(), domain.CategoryTest)
}
