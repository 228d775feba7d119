package enumorder

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestEnumOrder(t *testing.T) {
	analysistest.RunWithSuggestedFixes(t, analysistest.TestData(), Analyzer, "enumdecl")
}

func TestIsNoneName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"None", true},
		{"ColorNone", true},
		{"CompressionNone", true},
		{"NoneSense", false},
		{"Active", false},
		{"", false},
	}
	for _, c := range cases {
		if got := isNoneName(c.name); got != c.want {
			t.Errorf("isNoneName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}
