// Package pdf renders printable invoices.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoicing/format"
	"github.com/ledgerline/invoicing/models"
	"github.com/ledgerline/invoicing/totals"
)

// Invoice renders an invoice to PDF bytes. The breakdown passed in is the
// authoritative recomputation; summary rows with no contribution are left
// out, matching the on-screen presentation.
func Invoice(inv models.Invoice, client models.Client, settings models.Settings, result totals.Result) ([]byte, error) {
	money := func(d decimal.Decimal) string {
		return format.Money(settings.Currency, d)
	}

	m := maroto.New(config.NewBuilder().Build())

	m.AddRow(10,
		col.New(8).Add(
			text.New(settings.CompanyName, props.Text{Size: 16, Style: fontstyle.Bold}),
		),
		col.New(4).Add(
			text.New("INVOICE", props.Text{Size: 20, Style: fontstyle.BoldItalic, Align: align.Right}),
		),
	)

	m.AddRow(6,
		col.New(8),
		col.New(4).Add(
			text.New(fmt.Sprintf("Invoice #: %s", inv.InvoiceNumber), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		),
	)
	if settings.CompanyAddress != nil {
		m.AddRow(5,
			col.New(8).Add(text.New(*settings.CompanyAddress, props.Text{Size: 9})),
		)
	}
	if inv.IssueDate != nil {
		m.AddRow(5,
			col.New(8),
			col.New(4).Add(text.New(fmt.Sprintf("Date: %s", *inv.IssueDate), props.Text{Size: 9, Align: align.Right})),
		)
	}
	if inv.DueDate != nil {
		m.AddRow(5,
			col.New(8),
			col.New(4).Add(text.New(fmt.Sprintf("Due Date: %s", *inv.DueDate), props.Text{Size: 9, Align: align.Right})),
		)
	}
	if inv.PONumber != nil {
		m.AddRow(5,
			col.New(8),
			col.New(4).Add(text.New(fmt.Sprintf("PO #: %s", *inv.PONumber), props.Text{Size: 9, Align: align.Right})),
		)
	}

	m.AddRow(10)
	m.AddRow(8,
		col.New(12).Add(text.New(fmt.Sprintf("Bill To: %s", client.Name), props.Text{Size: 11, Style: fontstyle.Bold})),
	)
	if client.Address != nil {
		m.AddRow(5,
			col.New(12).Add(text.New(*client.Address, props.Text{Size: 9})),
		)
	}

	m.AddRow(8)
	m.AddRow(7,
		col.New(5).Add(text.New("Description", props.Text{Size: 9, Style: fontstyle.Bold})),
		col.New(2).Add(text.New("Quantity", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New("Rate", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
		col.New(3).Add(text.New("Amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
	)
	m.AddRow(2, col.New(12).Add(line.New()))

	for _, ln := range result.Lines {
		title := ln.Title
		if ln.QuantityType != "" {
			title = fmt.Sprintf("%s (%s)", ln.Title, ln.QuantityType)
		}
		m.AddRow(6,
			col.New(5).Add(text.New(title, props.Text{Size: 9})),
			col.New(2).Add(text.New(ln.Quantity.String(), props.Text{Size: 9, Align: align.Right})),
			col.New(2).Add(text.New(money(ln.Rate), props.Text{Size: 9, Align: align.Right})),
			col.New(3).Add(text.New(money(ln.Subtotal), props.Text{Size: 9, Align: align.Right})),
		)
		if ln.Description != "" {
			m.AddRow(5,
				col.New(8).Add(text.New(ln.Description, props.Text{Size: 8})),
			)
		}
	}

	m.AddRow(2, col.New(12).Add(line.New()))

	summary := func(label, value string, bold bool) {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		m.AddRow(6,
			col.New(9).Add(text.New(label, props.Text{Size: 9, Style: style, Align: align.Right})),
			col.New(3).Add(text.New(value, props.Text{Size: 9, Style: style, Align: align.Right})),
		)
	}

	summary("Subtotal", money(result.Subtotal), false)
	if !result.PreTaxDiscount.IsZero() {
		summary("Discount (pre-tax)", money(result.PreTaxDiscount), false)
	}
	for _, tax := range result.Taxes {
		summary(tax.Label, money(tax.Amount), false)
	}
	if !result.Discount.IsZero() {
		summary("Discount", money(result.Discount), false)
	}
	summary("Total", money(result.Total), true)
	if !inv.Paid.IsZero() {
		summary("Paid", money(inv.Paid.Neg()), false)
		summary("Balance Due", money(inv.Total.Sub(inv.Paid)), true)
	}

	if inv.Notes != nil {
		m.AddRow(10)
		m.AddRow(6,
			col.New(12).Add(text.New(*inv.Notes, props.Text{Size: 8})),
		)
	}

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating invoice pdf: %w", err)
	}
	return document.GetBytes(), nil
}
