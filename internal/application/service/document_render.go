package service

import (
	"fmt"

	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/domain/enum"
	"github.com/sangkips/gst-invoice-api/internal/domain/gst"
	"github.com/sangkips/gst-invoice-api/pkg/pdf"
)

// dateLayout is the dd-mm-yyyy form printed on Indian invoices.
const dateLayout = "02-01-2006"

type renderedLine struct {
	label  string
	amount string
}

// taxLines lists the charged GST components as printed, e.g.
// "Add : CGST @ 9.00 %".
func taxLines(doc *entity.Document) []renderedLine {
	if doc.TaxType == enum.TaxTypeInterstate {
		return []renderedLine{
			{label: fmt.Sprintf("Add : IGST @ %s %%", gst.FormatRate(doc.IGSTRate)), amount: gst.FormatAmount(doc.IGSTAmount)},
		}
	}
	return []renderedLine{
		{label: fmt.Sprintf("Add : CGST @ %s %%", gst.FormatRate(doc.CGSTRate)), amount: gst.FormatAmount(doc.CGSTAmount)},
		{label: fmt.Sprintf("Add : SGST @ %s %%", gst.FormatRate(doc.SGSTRate)), amount: gst.FormatAmount(doc.SGSTAmount)},
	}
}

func pdfParty(p entity.Party) pdf.Party {
	return pdf.Party{
		Name:      p.Name,
		Address:   p.Address,
		GSTIN:     p.GSTIN,
		State:     p.State,
		StateCode: p.StateCode,
		Phone:     p.Phone,
		Email:     p.Email,
		PAN:       p.PAN,
	}
}

// invoiceData maps a stored document onto the PDF layout.
func invoiceData(doc *entity.Document) (pdf.InvoiceData, error) {
	items, err := doc.Items()
	if err != nil {
		return pdf.InvoiceData{}, err
	}
	charges, err := doc.AdditionalCharges()
	if err != nil {
		return pdf.InvoiceData{}, err
	}

	data := pdf.InvoiceData{
		Title:         doc.Type.Title(),
		Number:        doc.Number,
		Date:          doc.Date.Format(dateLayout),
		PlaceOfSupply: doc.PlaceOfSupply,
		ReverseCharge: doc.ReverseCharge,
		Issuer:        pdfParty(doc.Issuer),
		Recipient:     pdfParty(doc.Recipient),
		Subtotal:      gst.FormatAmount(doc.Subtotal),
		RoundOff:      gst.FormatAmount(doc.Totals().RoundOff()),
		Total:         gst.FormatAmount(float64(doc.Total)),
		TotalInWords:  doc.TotalInWords,
		TransportName: doc.Transport.Name,
		VehicleNumber: doc.Transport.VehicleNumber,
		Station:       doc.Transport.Station,
		EWayBillNo:    doc.Transport.EWayBillNo,
	}
	if doc.ReferenceNumber != nil {
		data.ReferenceNumber = *doc.ReferenceNumber
	}
	if doc.IRN != nil {
		data.IRN = *doc.IRN
	}
	if doc.AckNo != nil {
		data.AckNo = *doc.AckNo
	}
	if doc.AckDate != nil {
		data.AckDate = doc.AckDate.Format(dateLayout)
	}
	if doc.Notes != nil {
		data.Notes = *doc.Notes
	}
	if doc.Bank.AccountNumber != "" {
		data.Bank = &pdf.Bank{
			Name:          doc.Bank.Name,
			Branch:        doc.Bank.Branch,
			AccountNumber: doc.Bank.AccountNumber,
			IFSC:          doc.Bank.IFSC,
		}
	}

	for _, item := range items {
		data.Items = append(data.Items, pdf.Item{
			Description: item.Description,
			HSNCode:     item.HSNCode,
			Quantity:    gst.FormatRate(item.Quantity),
			Unit:        item.Unit,
			Rate:        gst.FormatAmount(item.Rate),
			Amount:      gst.FormatAmount(item.Amount),
		})
	}
	for _, charge := range charges {
		data.Charges = append(data.Charges, pdf.Line{Label: charge.Description, Amount: gst.FormatAmount(charge.Amount)})
	}
	for _, line := range taxLines(doc) {
		data.Taxes = append(data.Taxes, pdf.Line{Label: line.label, Amount: line.amount})
	}
	return data, nil
}
