package name_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tangerg/resolve/name"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		raw  string
		want name.Name
	}{
		{"Friendly_Bard", "friendly-bard"},
		{"A...B--C", "a-b-c"},
		{"spam", "spam"},
		{"SPAM", "spam"},
		{"___spam___", "spam"},
		{"py-Thon.Pkg", "py-thon-pkg"},
		{"", ""},
	}

	for _, c := range cases {
		got := name.Canonicalize(c.raw)
		require.Equal(t, c.want, got, "Canonicalize(%q)", c.raw)
	}
}

func TestEqual(t *testing.T) {
	a := name.Canonicalize("Friendly-Bard")
	b := name.Canonicalize("friendly_bard")
	require.True(t, a.Equal(b))
}
