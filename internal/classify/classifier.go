// Package classify assigns fleet projects to categories and picks the
// public-facing domain for each of them.
package classify

import (
	"strings"
	"unicode"

	"github.com/hamed0406/fleetstatus/internal/domain"
)

// AliasRule matches when any alias contains Substring.
type AliasRule struct {
	Substring string
	Category  domain.Category
}

// NameTable is a set of normalized project names belonging to Category.
type NameTable struct {
	Category domain.Category
	Names    map[string]struct{}
}

func NewNameTable(c domain.Category, names ...string) NameTable {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[NormalizeName(n)] = struct{}{}
	}
	return NameTable{Category: c, Names: set}
}

// Classifier evaluates alias rules first, then name tables, both in the
// order given. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules    []AliasRule
	tables   []NameTable
	fallback domain.Category
}

func NewClassifier(rules []AliasRule, tables []NameTable, fallback domain.Category) *Classifier {
	return &Classifier{
		rules:    append([]AliasRule(nil), rules...),
		tables:   append([]NameTable(nil), tables...),
		fallback: fallback,
	}
}

func (c *Classifier) Classify(name string, aliases []string) domain.Category {
	for _, r := range c.rules {
		for _, a := range aliases {
			if strings.Contains(a, r.Substring) {
				return r.Category
			}
		}
	}
	n := NormalizeName(name)
	for _, t := range c.tables {
		if _, ok := t.Names[n]; ok {
			return t.Category
		}
	}
	return c.fallback
}

// NormalizeName lowercases name and turns every underscore or whitespace
// character into a hyphen.
func NormalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, strings.ToLower(name))
}
