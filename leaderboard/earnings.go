package leaderboard

import (
	"strings"

	"github.com/shopspring/decimal"
)

// placeholders the leaderboard shows instead of a purse amount.
var noEarnings = map[string]bool{
	"":   true,
	"—":  true,
	"-":  true,
	"--": true,
}

// ParseEarnings converts leaderboard money text such as "$621,000" into an
// exact amount. Placeholders, negative amounts and anything unparseable
// become zero.
func ParseEarnings(text string) decimal.Decimal {
	v := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(text))
	if noEarnings[v] {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
