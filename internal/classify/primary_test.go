package classify

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectPrimary(t *testing.T) {
	p := VercelPolicy()
	cases := []struct {
		desc    string
		aliases []string
		want    string
	}{
		{"custom domain first", []string{"alpha.vercel.app", "www.alpha.com", "alpha.com"}, "alpha.com"},
		{"first of several custom", []string{"a.example.com", "b.example.com"}, "a.example.com"},
		{"custom beats branch preview", []string{"alpha.example.com", "alpha-git-main.vercel.app"}, "alpha.example.com"},
		{"production default domain", []string{"www.alpha.com", "alpha-git-main.vercel.app", "alpha.vercel.app"}, "alpha.vercel.app"},
		{"legacy accounts skipped", []string{"alpha-pvrolomxs.vercel.app", "alpha-pvrolo-4909.vercel.app", "alpha-two.vercel.app"}, "alpha-two.vercel.app"},
		{"fallback to first", []string{"www.alpha.com", "alpha-git-dev.vercel.app"}, "www.alpha.com"},
		{"only branch previews", []string{"alpha-git-dev.vercel.app"}, "alpha-git-dev.vercel.app"},
		{"empty alias is not custom", []string{"", "x.vercel.app"}, "x.vercel.app"},
		{"empty alias before custom", []string{"", "www.x.io", "x.io"}, "x.io"},
		{"only empty aliases", []string{"", ""}, ""},
		{"empty", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, p.SelectPrimary(tc.aliases))
		})
	}
}

func TestSelectPrimary_ReturnsMemberWithoutMutating(t *testing.T) {
	p := VercelPolicy()
	inputs := [][]string{
		{"x.vercel.app", "www.x.io"},
		{"www.x.io"},
		{"x-git-a.vercel.app", "x-pvrolomxs.vercel.app", "x.io"},
		{""},
	}
	for _, aliases := range inputs {
		before := slices.Clone(aliases)
		got := p.SelectPrimary(aliases)
		assert.Contains(t, aliases, got)
		assert.Equal(t, before, aliases)
	}
}
