package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/domain/gst"
	"github.com/sangkips/gst-invoice-api/pkg/metrics"
	"github.com/sangkips/gst-invoice-api/pkg/printer"
	"go.uber.org/zap"
)

// PrinterService formats documents as thermal slips and prints them.
type PrinterService struct {
	printer printer.Printer
	width   int
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, charWidth int, m *metrics.Metrics, log *zap.Logger) *PrinterService {
	if charWidth <= 0 {
		charWidth = printer.Width80mm
	}
	return &PrinterService{printer: p, width: charWidth, metrics: m, log: log}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Printer    string `json:"printer"`
	CharWidth  int    `json:"char_width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: !printer.IsNull(s.printer),
		Connected:  s.printer.IsConnected(ctx),
		Printer:    s.printer.Name(),
		CharWidth:  s.width,
	}
}

// TestPrint sends a short test slip to the printer.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.PrintSlip, error) {
	slip := &entity.PrintSlip{
		Title:        "TEST PRINT",
		IssuerName:   "Printer check",
		Number:       "TEST",
		Date:         time.Now().Format(dateLayout),
		Recipient:    s.printer.Name(),
		Lines:        []entity.PrintSlipLine{{Description: "Sample item", QtyRate: "1.00 NOS x 100.00", Amount: "100.00"}},
		Subtotal:     "100.00",
		RoundOff:     "0.00",
		Total:        "100.00",
		TotalInWords: "One Hundred Only",
		Printer:      s.printer.Name(),
	}
	if printer.IsNull(s.printer) {
		return slip, printer.ErrNotConfigured
	}

	err := s.printer.Print(ctx, FormatSlip(slip, s.width))
	s.metrics.PrintJob(err)
	if err != nil {
		return slip, fmt.Errorf("failed to print test page: %w", err)
	}
	slip.Printed = true
	return slip, nil
}

// PrintDocument sends doc to the printer. The slip is returned even when
// printing fails so callers can still show the printable view.
func (s *PrinterService) PrintDocument(ctx context.Context, doc *entity.Document) (*entity.PrintSlip, error) {
	slip, err := BuildSlip(doc)
	if err != nil {
		return nil, err
	}
	slip.Printer = s.printer.Name()

	if printer.IsNull(s.printer) {
		return slip, printer.ErrNotConfigured
	}

	err = s.printer.Print(ctx, FormatSlip(slip, s.width))
	s.metrics.PrintJob(err)
	if err != nil {
		s.log.Warn("print failed",
			zap.String("document_id", doc.ID.String()),
			zap.String("printer", s.printer.Name()),
			zap.Error(err),
		)
		return slip, fmt.Errorf("failed to print document: %w", err)
	}

	slip.Printed = true
	s.log.Info("document printed",
		zap.String("document_id", doc.ID.String()),
		zap.String("number", doc.Number),
	)
	return slip, nil
}

// BuildSlip composes the printable view of a document.
func BuildSlip(doc *entity.Document) (*entity.PrintSlip, error) {
	items, err := doc.Items()
	if err != nil {
		return nil, err
	}
	charges, err := doc.AdditionalCharges()
	if err != nil {
		return nil, err
	}

	slip := &entity.PrintSlip{
		Title:        doc.Type.Title(),
		IssuerName:   doc.Issuer.Name,
		IssuerGSTIN:  doc.Issuer.GSTIN,
		Address:      doc.Issuer.Address,
		Phone:        doc.Issuer.Phone,
		Number:       doc.Number,
		Date:         doc.Date.Format(dateLayout),
		Recipient:    doc.Recipient.Name,
		RecipientTIN: doc.Recipient.GSTIN,
		Lines:        make([]entity.PrintSlipLine, 0, len(items)),
		Subtotal:     gst.FormatAmount(doc.Subtotal),
		RoundOff:     gst.FormatAmount(doc.Totals().RoundOff()),
		Total:        gst.FormatAmount(float64(doc.Total)),
		TotalInWords: doc.TotalInWords,
	}
	for _, item := range items {
		slip.Lines = append(slip.Lines, entity.PrintSlipLine{
			Description: item.Description,
			HSNCode:     item.HSNCode,
			QtyRate:     fmt.Sprintf("%s %s x %s", gst.FormatRate(item.Quantity), item.Unit, gst.FormatAmount(item.Rate)),
			Amount:      gst.FormatAmount(item.Amount),
		})
	}
	for _, charge := range charges {
		slip.Charges = append(slip.Charges, entity.PrintSlipLine{
			Description: charge.Description,
			Amount:      gst.FormatAmount(charge.Amount),
		})
	}
	for _, line := range taxLines(doc) {
		slip.Taxes = append(slip.Taxes, entity.PrintSlipLine{Description: line.label, Amount: line.amount})
	}
	return slip, nil
}

// FormatSlip converts a slip into ESC/POS bytes.
func FormatSlip(slip *entity.PrintSlip, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text(slip.IssuerName).
		SetBold(false)
	if slip.Address != "" {
		doc.Text(slip.Address)
	}
	if slip.Phone != "" {
		doc.TextF("Ph: %s", slip.Phone)
	}
	if slip.IssuerGSTIN != "" {
		doc.TextF("GSTIN: %s", slip.IssuerGSTIN)
	}
	doc.LineFeed().
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(slip.Title).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("No:", slip.Number).
		KeyValue("Date:", slip.Date).
		KeyValue("To:", slip.Recipient)
	if slip.RecipientTIN != "" {
		doc.KeyValue("GSTIN:", slip.RecipientTIN)
	}
	doc.Separator('-')

	for _, line := range slip.Lines {
		doc.ItemLine(line.Description, line.QtyRate, line.Amount)
	}
	for _, charge := range slip.Charges {
		doc.KeyValue(charge.Description, charge.Amount)
	}

	doc.Separator('-').
		KeyValue("Taxable Value", slip.Subtotal)
	for _, tax := range slip.Taxes {
		doc.KeyValue(tax.Description, tax.Amount)
	}
	doc.KeyValue("Round Off", slip.RoundOff).
		SetBold(true).
		KeyValue("GRAND TOTAL", slip.Total).
		SetBold(false).
		Separator('-').
		Text("INR " + slip.TotalInWords)

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for your business!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
