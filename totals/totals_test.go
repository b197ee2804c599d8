package totals_test

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoicing/models"
	"github.com/ledgerline/invoicing/totals"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(id int, qty, rate string, taxIndices ...int) models.LineItem {
	return models.LineItem{
		ID:         id,
		OrderIndex: id,
		Title:      "Work",
		TaxIndices: taxIndices,
		Quantity:   dec(qty),
		Rate:       dec(rate),
	}
}

func itemAdj(id int, qty, rate, adjustment string, taxIndices ...int) models.LineItem {
	it := item(id, qty, rate, taxIndices...)
	it.Adjustment = decimal.NullDecimal{Decimal: dec(adjustment), Valid: true}
	return it
}

func tax(label, rate string, inclusive bool) models.TaxRate {
	return models.TaxRate{
		Label:     label,
		Rate:      decimal.NullDecimal{Decimal: dec(rate), Valid: true},
		Inclusive: inclusive,
	}
}

func pct(value string) *models.Discount {
	return &models.Discount{Type: models.DiscountPercentage, Value: dec(value)}
}

func flat(value string) *models.Discount {
	return &models.Discount{Type: models.DiscountFlat, Value: dec(value)}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.LineItem
		schedule     []models.TaxRate
		preTax       *models.Discount
		discount     *models.Discount
		precision    int32
		wantSubtotal string
		wantPreTax   string
		wantTaxTotal string
		wantDiscount string
		wantTotal    string
		wantTaxRows  int
	}{
		{
			name:         "empty invoice",
			precision:    2,
			wantSubtotal: "0", wantPreTax: "0", wantTaxTotal: "0", wantDiscount: "0", wantTotal: "0",
		},
		{
			name:         "single line no tax no discounts",
			items:        []models.LineItem{item(1, "10", "5.00")},
			precision:    2,
			wantSubtotal: "50.00", wantPreTax: "0", wantTaxTotal: "0", wantDiscount: "0", wantTotal: "50.00",
		},
		{
			name:         "adjustment percentage added to line subtotal",
			items:        []models.LineItem{itemAdj(1, "2", "100.00", "10")},
			precision:    2,
			wantSubtotal: "220.00", wantPreTax: "0", wantTaxTotal: "0", wantDiscount: "0", wantTotal: "220.00",
		},
		{
			name:         "inclusive tax backed out of rate",
			items:        []models.LineItem{item(1, "1", "110.00", 0)},
			schedule:     []models.TaxRate{tax("VAT", "10", true)},
			precision:    2,
			wantSubtotal: "100.00", wantPreTax: "0", wantTaxTotal: "10.00", wantDiscount: "0", wantTotal: "110.00",
			wantTaxRows:  1,
		},
		{
			name:         "two inclusive taxes combine additively",
			items:        []models.LineItem{item(1, "1", "115.00", 0, 1)},
			schedule:     []models.TaxRate{tax("GST", "10", true), tax("PST", "5", true)},
			precision:    2,
			wantSubtotal: "100.00", wantPreTax: "0", wantTaxTotal: "15.00", wantDiscount: "0", wantTotal: "115.00",
			wantTaxRows:  2,
		},
		{
			name:         "pre-tax discount distributed then taxed",
			items:        []models.LineItem{item(1, "1", "50.00", 0), item(2, "1", "50.00", 0)},
			schedule:     []models.TaxRate{tax("VAT", "10", false)},
			preTax:       pct("10"),
			precision:    2,
			wantSubtotal: "100.00", wantPreTax: "-10.00", wantTaxTotal: "9.00", wantDiscount: "0", wantTotal: "99.00",
			wantTaxRows:  1,
		},
		{
			name:         "pre-tax discount ignored without tax context",
			items:        []models.LineItem{item(1, "1", "100.00")},
			schedule:     []models.TaxRate{tax("VAT", "10", false)},
			preTax:       pct("10"),
			precision:    2,
			wantSubtotal: "100.00", wantPreTax: "0", wantTaxTotal: "0", wantDiscount: "0", wantTotal: "100.00",
		},
		{
			name:         "zero-rate tax enables discounts but is suppressed",
			items:        []models.LineItem{item(1, "1", "100.00", 0)},
			schedule:     []models.TaxRate{tax("Exempt", "0", false)},
			preTax:       pct("10"),
			precision:    2,
			wantSubtotal: "100.00", wantPreTax: "-10.00", wantTaxTotal: "0", wantDiscount: "0", wantTotal: "90.00",
		},
		{
			name:         "invalid tax rate entry skipped entirely",
			items:        []models.LineItem{item(1, "1", "100.00", 0)},
			schedule:     []models.TaxRate{{Label: "Broken"}, tax("VAT", "5", false)},
			precision:    2,
			wantSubtotal: "100.00", wantPreTax: "0", wantTaxTotal: "0", wantDiscount: "0", wantTotal: "100.00",
		},
		{
			name:         "flat post-tax discount",
			items:        []models.LineItem{item(1, "4", "50.00")},
			discount:     flat("50"),
			precision:    2,
			wantSubtotal: "200.00", wantPreTax: "0", wantTaxTotal: "0", wantDiscount: "-50.00", wantTotal: "150.00",
		},
		{
			name:         "percentage post-tax discount applies after tax",
			items:        []models.LineItem{item(1, "1", "110.00", 0)},
			schedule:     []models.TaxRate{tax("VAT", "10", true)},
			discount:     pct("10"),
			precision:    2,
			wantSubtotal: "100.00", wantPreTax: "0", wantTaxTotal: "10.00", wantDiscount: "-11.00", wantTotal: "99.00",
			wantTaxRows:  1,
		},
		{
			name:         "zero subtotal with flat pre-tax discount skips distribution",
			items:        []models.LineItem{item(1, "0", "100.00", 0)},
			schedule:     []models.TaxRate{tax("VAT", "10", false)},
			preTax:       flat("10"),
			precision:    2,
			wantSubtotal: "0.00", wantPreTax: "-10.00", wantTaxTotal: "0", wantDiscount: "0", wantTotal: "-10.00",
		},
		{
			name:         "precision zero rounds every stage",
			items:        []models.LineItem{item(1, "3", "33.33", 0)},
			schedule:     []models.TaxRate{tax("VAT", "7", false)},
			precision:    0,
			wantSubtotal: "100", wantPreTax: "0", wantTaxTotal: "7", wantDiscount: "0", wantTotal: "107",
			wantTaxRows:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := totals.Calculate(tt.items, tt.schedule, tt.preTax, tt.discount, tt.precision)

			if !result.Subtotal.Equal(dec(tt.wantSubtotal)) {
				t.Errorf("Subtotal = %s, want %s", result.Subtotal, tt.wantSubtotal)
			}
			if !result.PreTaxDiscount.Equal(dec(tt.wantPreTax)) {
				t.Errorf("PreTaxDiscount = %s, want %s", result.PreTaxDiscount, tt.wantPreTax)
			}
			if !result.TaxTotal.Equal(dec(tt.wantTaxTotal)) {
				t.Errorf("TaxTotal = %s, want %s", result.TaxTotal, tt.wantTaxTotal)
			}
			if !result.Discount.Equal(dec(tt.wantDiscount)) {
				t.Errorf("Discount = %s, want %s", result.Discount, tt.wantDiscount)
			}
			if !result.Total.Equal(dec(tt.wantTotal)) {
				t.Errorf("Total = %s, want %s", result.Total, tt.wantTotal)
			}
			if len(result.Taxes) != tt.wantTaxRows {
				t.Errorf("tax rows = %d, want %d", len(result.Taxes), tt.wantTaxRows)
			}

			// The identity holds for every input: each term is rounded
			// independently before the sum.
			identity := result.Subtotal.Add(result.PreTaxDiscount).Add(result.TaxTotal).Add(result.Discount)
			if !result.Total.Equal(identity.Round(tt.precision)) {
				t.Errorf("Total = %s, want subtotal+preTax+tax+discount = %s", result.Total, identity)
			}
		})
	}
}

func TestCalculatePreTaxDiscountPerLine(t *testing.T) {
	items := []models.LineItem{item(1, "1", "50.00", 0), item(2, "1", "50.00", 0)}
	schedule := []models.TaxRate{tax("VAT", "10", false)}

	result := totals.Calculate(items, schedule, pct("10"), nil, 2)

	for i, line := range result.Lines {
		if !line.Subtotal.Equal(dec("50.00")) {
			t.Errorf("line %d Subtotal = %s, want 50.00", i, line.Subtotal)
		}
		if !line.DiscountedSubtotal.Equal(dec("45.00")) {
			t.Errorf("line %d DiscountedSubtotal = %s, want 45.00", i, line.DiscountedSubtotal)
		}
	}
}

func TestCalculateDiscountedSubtotalPassThrough(t *testing.T) {
	items := []models.LineItem{item(1, "2", "25.50", 0), itemAdj(2, "1", "80.00", "-5", 0)}
	schedule := []models.TaxRate{tax("VAT", "19", false)}

	result := totals.Calculate(items, schedule, nil, nil, 2)

	for i, line := range result.Lines {
		if !line.DiscountedSubtotal.Equal(line.Subtotal) {
			t.Errorf("line %d DiscountedSubtotal = %s, want Subtotal %s", i, line.DiscountedSubtotal, line.Subtotal)
		}
	}
}

func TestCalculateNoTaxReferencesMeansNoTaxRows(t *testing.T) {
	// A configured schedule alone does nothing; lines must reference it.
	items := []models.LineItem{item(1, "3", "10.00"), item(2, "1", "99.99")}
	schedule := []models.TaxRate{tax("VAT", "19", false), tax("GST", "5", true)}

	result := totals.Calculate(items, schedule, nil, nil, 2)

	if len(result.Taxes) != 0 {
		t.Errorf("tax rows = %d, want 0", len(result.Taxes))
	}
	if !result.TaxTotal.IsZero() {
		t.Errorf("TaxTotal = %s, want 0", result.TaxTotal)
	}
}

func TestCalculateExclusiveTaxLeavesRateAlone(t *testing.T) {
	items := []models.LineItem{item(1, "2", "100.00", 0)}
	schedule := []models.TaxRate{tax("VAT", "10", false)}

	result := totals.Calculate(items, schedule, nil, nil, 2)

	if !result.Lines[0].Rate.Equal(dec("100.00")) {
		t.Errorf("Rate = %s, want 100.00", result.Lines[0].Rate)
	}
	if !result.TaxTotal.Equal(dec("20.00")) {
		t.Errorf("TaxTotal = %s, want 20.00", result.TaxTotal)
	}
}

func TestCalculateIsPureAndIdempotent(t *testing.T) {
	items := []models.LineItem{itemAdj(1, "3", "19.99", "5", 0, 1)}
	schedule := []models.TaxRate{tax("GST", "10", true), tax("PST", "7", false)}
	itemsBefore := make([]models.LineItem, len(items))
	copy(itemsBefore, items)
	scheduleBefore := make([]models.TaxRate, len(schedule))
	copy(scheduleBefore, schedule)

	first := totals.Calculate(items, schedule, pct("5"), flat("3"), 2)
	second := totals.Calculate(items, schedule, pct("5"), flat("3"), 2)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calculation differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if !reflect.DeepEqual(items, itemsBefore) {
		t.Errorf("line items mutated: %+v", items)
	}
	if !reflect.DeepEqual(schedule, scheduleBefore) {
		t.Errorf("tax schedule mutated: %+v", schedule)
	}
}

func TestCalculateOutOfRangeTaxIndexIgnored(t *testing.T) {
	items := []models.LineItem{item(1, "1", "100.00", 7)}
	schedule := []models.TaxRate{tax("VAT", "10", false)}

	result := totals.Calculate(items, schedule, nil, nil, 2)

	if len(result.Taxes) != 0 {
		t.Errorf("tax rows = %d, want 0", len(result.Taxes))
	}
	if !result.Total.Equal(dec("100.00")) {
		t.Errorf("Total = %s, want 100.00", result.Total)
	}
}
