// Package pdf renders GST tax invoices, debit notes and credit notes with maroto.
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
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Party is an issuer or recipient block. All values are preformatted.
type Party struct {
	Name      string
	Address   string
	GSTIN     string
	State     string
	StateCode string
	Phone     string
	Email     string
	PAN       string
}

// Item is one row of the items table.
type Item struct {
	Description string
	HSNCode     string
	Quantity    string
	Unit        string
	Rate        string
	Amount      string
}

// Line is a labelled amount in the totals block, e.g. "Add : CGST @ 9.00 %".
type Line struct {
	Label  string
	Amount string
}

// Bank holds the payee account printed in the footer.
type Bank struct {
	Name          string
	Branch        string
	AccountNumber string
	IFSC          string
}

// InvoiceData is everything printed on a document.
type InvoiceData struct {
	Title           string
	Number          string
	Date            string
	ReferenceNumber string
	PlaceOfSupply   string
	ReverseCharge   bool

	Issuer    Party
	Recipient Party

	Items   []Item
	Charges []Line
	Taxes   []Line

	Subtotal     string
	RoundOff     string
	Total        string
	TotalInWords string

	Bank *Bank

	TransportName string
	VehicleNumber string
	Station       string
	EWayBillNo    string
	IRN           string
	AckNo         string
	AckDate       string
	Notes         string
}

var (
	small      = props.Text{Size: 8}
	smallBold  = props.Text{Size: 8, Style: fontstyle.Bold}
	smallRight = props.Text{Size: 8, Align: align.Right}
	boldRight  = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
)

// RenderInvoice lays out data on A4 and returns the PDF bytes.
func RenderInvoice(data InvoiceData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addParties(m, data)
	addTransport(m, data)
	addItems(m, data.Items)
	addTotals(m, data)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data InvoiceData) {
	m.AddRow(10,
		text.NewCol(12, data.Title, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	left := col.New(6).Add(
		text.New(data.Issuer.Name, props.Text{Size: 12, Style: fontstyle.Bold}),
		text.New(data.Issuer.Address, props.Text{Size: 8, Top: 6}),
		text.New("GSTIN: "+data.Issuer.GSTIN, props.Text{Size: 8, Top: 14}),
	)
	if data.Issuer.Phone != "" || data.Issuer.Email != "" {
		left.Add(text.New(joinNonEmpty(" | ", data.Issuer.Phone, data.Issuer.Email), props.Text{Size: 8, Top: 18}))
	}

	right := col.New(6).Add(
		text.New("No: "+data.Number, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.New("Date: "+data.Date, props.Text{Size: 8, Align: align.Right, Top: 5}),
	)
	top := 9.0
	if data.ReferenceNumber != "" {
		right.Add(text.New("Against Invoice: "+data.ReferenceNumber, props.Text{Size: 8, Align: align.Right, Top: top}))
		top += 4
	}
	if data.PlaceOfSupply != "" {
		right.Add(text.New("Place of Supply: "+data.PlaceOfSupply, props.Text{Size: 8, Align: align.Right, Top: top}))
		top += 4
	}
	reverse := "No"
	if data.ReverseCharge {
		reverse = "Yes"
	}
	right.Add(text.New("Reverse Charge: "+reverse, props.Text{Size: 8, Align: align.Right, Top: top}))

	m.AddRow(26, left, right)
	m.AddRow(3, line.NewCol(12))
}

func addParties(m core.Maroto, data InvoiceData) {
	r := data.Recipient
	block := col.New(12).Add(
		text.New("Billed To", smallBold),
		text.New(r.Name, props.Text{Size: 10, Style: fontstyle.Bold, Top: 4}),
		text.New(r.Address, props.Text{Size: 8, Top: 9}),
	)
	top := 17.0
	if r.GSTIN != "" {
		block.Add(text.New("GSTIN: "+r.GSTIN, props.Text{Size: 8, Top: top}))
		top += 4
	}
	if r.State != "" {
		block.Add(text.New(fmt.Sprintf("State: %s (%s)", r.State, r.StateCode), props.Text{Size: 8, Top: top}))
	}
	m.AddRow(26, block)
	m.AddRow(3, line.NewCol(12))
}

func addTransport(m core.Maroto, data InvoiceData) {
	if data.TransportName == "" && data.VehicleNumber == "" && data.EWayBillNo == "" && data.IRN == "" {
		return
	}
	m.AddRow(5,
		text.NewCol(3, "Transport: "+data.TransportName, small),
		text.NewCol(3, "Vehicle No: "+data.VehicleNumber, small),
		text.NewCol(3, "Station: "+data.Station, small),
		text.NewCol(3, "E-Way Bill: "+data.EWayBillNo, small),
	)
	if data.IRN != "" {
		m.AddRow(5,
			text.NewCol(8, "IRN: "+data.IRN, small),
			text.NewCol(4, joinNonEmpty("  ", "Ack No: "+data.AckNo, "Ack Date: "+data.AckDate), smallRight),
		)
	}
	m.AddRow(3, line.NewCol(12))
}

func addItems(m core.Maroto, items []Item) {
	m.AddRow(7,
		text.NewCol(1, "S.No", smallBold),
		text.NewCol(4, "Description", smallBold),
		text.NewCol(2, "HSN/SAC", smallBold),
		text.NewCol(1, "Qty", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(1, "Unit", smallBold),
		text.NewCol(1, "Rate", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	for i, item := range items {
		m.AddRow(6,
			text.NewCol(1, fmt.Sprintf("%d", i+1), small),
			text.NewCol(4, item.Description, small),
			text.NewCol(2, item.HSNCode, small),
			text.NewCol(1, item.Quantity, smallRight),
			text.NewCol(1, item.Unit, small),
			text.NewCol(1, item.Rate, smallRight),
			text.NewCol(2, item.Amount, smallRight),
		)
	}
	m.AddRow(2, line.NewCol(12))
}

func addTotals(m core.Maroto, data InvoiceData) {
	amountRow := func(label, amount string, style props.Text) {
		m.AddRow(5,
			col.New(6),
			text.NewCol(4, label, props.Text{Size: style.Size, Style: style.Style}),
			text.NewCol(2, amount, style),
		)
	}

	for _, c := range data.Charges {
		amountRow(c.Label, c.Amount, smallRight)
	}
	amountRow("Taxable Value", data.Subtotal, boldRight)
	for _, t := range data.Taxes {
		amountRow(t.Label, t.Amount, smallRight)
	}
	amountRow("Round Off", data.RoundOff, smallRight)

	m.AddRow(2, col.New(6), line.NewCol(6))
	m.AddRow(7,
		col.New(6),
		text.NewCol(4, "Grand Total", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(2, data.Total, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(8,
		text.NewCol(12, "Amount Chargeable (in words): INR "+data.TotalInWords, props.Text{
			Size:  8,
			Style: fontstyle.BoldItalic,
			Top:   2,
		}),
	)
	m.AddRow(3, line.NewCol(12))
}

func addFooter(m core.Maroto, data InvoiceData) {
	bank := col.New(7)
	if b := data.Bank; b != nil {
		bank.Add(
			text.New("Bank Details", smallBold),
			text.New("Bank: "+joinNonEmpty(", ", b.Name, b.Branch), props.Text{Size: 8, Top: 4}),
			text.New("A/c No: "+b.AccountNumber, props.Text{Size: 8, Top: 8}),
			text.New("IFSC: "+b.IFSC, props.Text{Size: 8, Top: 12}),
		)
	}
	if data.Issuer.PAN != "" {
		bank.Add(text.New("PAN: "+data.Issuer.PAN, props.Text{Size: 8, Top: 16}))
	}

	m.AddRow(24,
		bank,
		col.New(5).Add(
			text.New("For "+data.Issuer.Name, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
			text.New("Authorised Signatory", props.Text{Size: 8, Align: align.Right, Top: 18}),
		),
	)

	if data.Notes != "" {
		m.AddRow(10, text.NewCol(12, "Notes: "+data.Notes, props.Text{Size: 7, Top: 2}))
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
