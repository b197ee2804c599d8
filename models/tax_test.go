package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTaxRateInputNonNumericRateDisablesEntry(t *testing.T) {
	tests := []struct {
		name      string
		rate      string
		wantValid bool
		want      string
	}{
		{name: "numeric", rate: "19", wantValid: true, want: "19"},
		{name: "decimal", rate: "7.5", wantValid: true, want: "7.5"},
		{name: "zero", rate: "0", wantValid: true, want: "0"},
		{name: "empty", rate: "", wantValid: false},
		{name: "garbage", rate: "ten percent", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := TaxRateInput{Label: "VAT", Rate: tt.rate}.TaxRate()
			if r.Rate.Valid != tt.wantValid {
				t.Fatalf("Rate.Valid = %v, want %v", r.Rate.Valid, tt.wantValid)
			}
			if tt.wantValid && !r.Rate.Decimal.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Rate = %s, want %s", r.Rate.Decimal, tt.want)
			}
		})
	}
}

func TestResolveTaxSchedule(t *testing.T) {
	global := []TaxRate{{Label: "global"}}
	clientOverride := []TaxRate{{Label: "client"}}
	invoiceOverride := []TaxRate{{Label: "invoice"}}
	empty := []TaxRate{}

	tests := []struct {
		name    string
		invoice *[]TaxRate
		client  *[]TaxRate
		want    string
		wantLen int
	}{
		{name: "invoice override wins", invoice: &invoiceOverride, client: &clientOverride, want: "invoice", wantLen: 1},
		{name: "client override next", client: &clientOverride, want: "client", wantLen: 1},
		{name: "global fallback", want: "global", wantLen: 1},
		{name: "explicit empty override disables taxes", invoice: &empty, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTaxSchedule(tt.invoice, tt.client, global)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].Label != tt.want {
				t.Errorf("label = %q, want %q", got[0].Label, tt.want)
			}
		})
	}
}

func TestDiscountInputDiscount(t *testing.T) {
	tests := []struct {
		name     string
		input    DiscountInput
		wantNil  bool
		wantType string
		wantVal  string
	}{
		{name: "empty value means none", input: DiscountInput{Type: DiscountFlat, Value: ""}, wantNil: true},
		{name: "zero value means none", input: DiscountInput{Type: DiscountPercentage, Value: "0"}, wantNil: true},
		{name: "non-numeric means none", input: DiscountInput{Type: DiscountFlat, Value: "half"}, wantNil: true},
		{name: "empty type defaults to percentage", input: DiscountInput{Value: "10"}, wantType: DiscountPercentage, wantVal: "10"},
		{name: "flat kept", input: DiscountInput{Type: DiscountFlat, Value: "25.50"}, wantType: DiscountFlat, wantVal: "25.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.input.Discount()
			if tt.wantNil {
				if d != nil {
					t.Fatalf("got %+v, want nil", d)
				}
				return
			}
			if d == nil {
				t.Fatal("got nil, want discount")
			}
			if d.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", d.Type, tt.wantType)
			}
			if !d.Value.Equal(decimal.RequireFromString(tt.wantVal)) {
				t.Errorf("Value = %s, want %s", d.Value, tt.wantVal)
			}
		})
	}
}
