package formats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		fails    bool
	}{
		{input: "Modern", expected: "MO"},
		{input: "mo", expected: "MO"},
		{input: " pioneer ", expected: "PI"},
		{input: "PAU", expected: "PAU"},
		{input: "modrn", expected: "MO"},
		{input: "standrd", expected: "ST"},
		{input: "commander", fails: true},
		{input: "", fails: true},
	}

	for _, test := range testCases {
		f, err := Resolve(test.input)
		if test.fails {
			require.Error(t, err, test.input)
			continue
		}
		require.NoError(t, err, test.input)
		require.Equal(t, test.expected, f.Code, test.input)
	}
}

func TestByCode(t *testing.T) {
	f, ok := ByCode("le")
	require.True(t, ok)
	require.Equal(t, "Legacy", f.Name)

	_, ok = ByCode("XX")
	require.False(t, ok)
}

func TestLookbackDays(t *testing.T) {
	require.Equal(t, 3, Last3Days.Days())
	require.Equal(t, 7, Lookback(5).Days())
	require.Equal(t, 30, Lookback(90).Days())
	require.Equal(t, "7 days", LastWeek.String())
}
