package leaderboard

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseEarnings(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"$621,000", "621000"},
		{"$3,600,000.00", "3600000"},
		{"$1,234.56", "1234.56"},
		{"  $45,100 ", "45100"},
		{"19500", "19500"},
		{"—", "0"},
		{"-", "0"},
		{"--", "0"},
		{"$--", "0"},
		{"", "0"},
		{"garbage", "0"},
		{"$12k", "0"},
		{"-$500", "0"},
		{"$-500", "0"},
		{"-500", "0"},
	}
	for _, tc := range cases {
		got := ParseEarnings(tc.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "ParseEarnings(%q) = %s, want %s", tc.in, got, tc.want)
	}
}

func TestParseEarningsKeepsCents(t *testing.T) {
	got := ParseEarnings("$10.01").Add(ParseEarnings("$20.02"))
	assert.Equal(t, "30.03", got.StringFixed(2))
}
