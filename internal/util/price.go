package util

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var reCurrency = regexp.MustCompile(`[^\d.,\-]`)

// ParsePrice coerces a currency-formatted cell value into a decimal. Currency
// symbols and grouping separators are stripped first. Empty or unparseable
// input yields zero; negative values pass through uninterpreted.
func ParsePrice(input string) decimal.Decimal {
	s := strings.ReplaceAll(input, " ", " ")
	s = reCurrency.ReplaceAllString(s, "")
	s = normalizeNumericToken(s)
	if s == "" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// FormatMoney renders a decimal as "$1,234.50": two decimals, comma-grouped
// integer part. Order messages embed this verbatim, so it must be stable.
func FormatMoney(v decimal.Decimal) string {
	fixed := v.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	out := "$" + grouped.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

func normalizeNumericToken(token string) string {
	compact := strings.ReplaceAll(token, " ", "")
	if regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})+,\d+$`).MatchString(compact) {
		compact = strings.ReplaceAll(compact, ".", "")
		return strings.ReplaceAll(compact, ",", ".")
	}
	if regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+(?:\.\d+)?$`).MatchString(compact) {
		return strings.ReplaceAll(compact, ",", "")
	}
	if strings.Contains(compact, ",") && !strings.Contains(compact, ".") {
		return strings.ReplaceAll(compact, ",", ".")
	}
	return compact
}
