package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoicing/models"
)

var usd = models.Currency{
	Code:               "USD",
	Symbol:             "$",
	ThousandsSeparator: ",",
	DecimalSeparator:   ".",
	Precision:          2,
}

var eur = models.Currency{
	Code:               "EUR",
	Symbol:             "€",
	ThousandsSeparator: ".",
	DecimalSeparator:   ",",
	Precision:          2,
}

func TestMoney(t *testing.T) {
	yen := models.Currency{Code: "JPY", Symbol: "¥", ThousandsSeparator: ",", Precision: 0}

	tests := []struct {
		name     string
		currency models.Currency
		amount   string
		want     string
	}{
		{name: "plain", currency: usd, amount: "5", want: "$5.00"},
		{name: "grouped thousands", currency: usd, amount: "1234567.8", want: "$1,234,567.80"},
		{name: "negative sign before symbol", currency: usd, amount: "-1234.5", want: "-$1,234.50"},
		{name: "european separators", currency: eur, amount: "9876.54", want: "€9.876,54"},
		{name: "zero precision has no fraction", currency: yen, amount: "1500", want: "¥1,500"},
		{name: "rounds to precision", currency: usd, amount: "10.005", want: "$10.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Money(tt.currency, decimal.RequireFromString(tt.amount))
			if got != tt.want {
				t.Errorf("Money(%s) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestParseMoneyRoundTrip(t *testing.T) {
	for _, c := range []models.Currency{usd, eur} {
		for _, amount := range []string{"0.00", "5.00", "-1234.50", "1234567.89"} {
			d := decimal.RequireFromString(amount)
			got, err := ParseMoney(c, Money(c, d))
			if err != nil {
				t.Fatalf("ParseMoney(%s, Money(%s)): %v", c.Code, amount, err)
			}
			if !got.Equal(d) {
				t.Errorf("round trip %s %s = %s", c.Code, amount, got)
			}
		}
	}
}

func TestParseMoneyRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "abc", "$", "1.2.3"} {
		if _, err := ParseMoney(usd, s); err == nil {
			t.Errorf("ParseMoney(%q): expected error", s)
		}
	}
}

func TestInvoiceNumber(t *testing.T) {
	issuedAt := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		template string
		seq      int64
		want     string
	}{
		{name: "default template", template: DefaultNumberTemplate, seq: 12, want: "INV-2026-0012"},
		{name: "all date tokens", template: "{YYYY}/{YY}/{MM}/{DD}-{SEQ}", seq: 7, want: "2026/26/03/07-7"},
		{name: "wide padding", template: "{SEQ6}", seq: 42, want: "000042"},
		{name: "sequence exceeding pad width", template: "{SEQ2}", seq: 123, want: "123"},
		{name: "no tokens at all", template: "FIXED", seq: 1, want: "FIXED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InvoiceNumber(tt.template, issuedAt, tt.seq)
			if err != nil {
				t.Fatalf("InvoiceNumber: %v", err)
			}
			if got != tt.want {
				t.Errorf("InvoiceNumber(%q, seq=%d) = %q, want %q", tt.template, tt.seq, got, tt.want)
			}
		})
	}
}

func TestInvoiceNumberErrors(t *testing.T) {
	issuedAt := time.Now()

	if _, err := InvoiceNumber("", issuedAt, 1); err == nil {
		t.Error("empty template: expected error")
	}
	if _, err := InvoiceNumber("INV-{SEQ}", issuedAt, 0); err == nil {
		t.Error("zero sequence: expected error")
	}
	if _, err := InvoiceNumber("INV-{BOGUS}", issuedAt, 1); err == nil {
		t.Error("unknown token: expected error")
	}
}
