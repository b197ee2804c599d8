// Package format renders and parses the human-facing representations of the
// system: money strings and templated invoice numbers. The totals engine
// never sees formatted values; everything is parsed back to plain decimals
// before it crosses into a calculation.
package format

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoicing/models"
)

// Money renders an amount using the currency's symbol and separators,
// e.g. -1234.5 with USD defaults becomes "-$1,234.50".
func Money(c models.Currency, amount decimal.Decimal) string {
	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(c.Precision)

	whole, frac, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteString("-")
	}
	b.WriteString(c.Symbol)
	b.WriteString(groupThousands(whole, c.ThousandsSeparator))
	if hasFrac {
		sep := c.DecimalSeparator
		if sep == "" {
			sep = "."
		}
		b.WriteString(sep)
		b.WriteString(frac)
	}
	return b.String()
}

// ParseMoney reverses Money: it strips the currency symbol and thousands
// separators, normalizes the decimal separator, and returns the plain
// amount. Anything that is not a recognizable number is an error; forgiving
// coercion belongs to the form layer, not here.
func ParseMoney(c models.Currency, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if c.Symbol != "" {
		s = strings.ReplaceAll(s, c.Symbol, "")
	}
	if c.ThousandsSeparator != "" {
		s = strings.ReplaceAll(s, c.ThousandsSeparator, "")
	}
	if c.DecimalSeparator != "" && c.DecimalSeparator != "." {
		s = strings.ReplaceAll(s, c.DecimalSeparator, ".")
	}
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

func groupThousands(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
