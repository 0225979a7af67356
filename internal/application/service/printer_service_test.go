package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/domain/enum"
	"github.com/sangkips/gst-invoice-api/internal/domain/gst"
	"github.com/sangkips/gst-invoice-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePrinter struct {
	jobs [][]byte
	err  error
}

func (p *fakePrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *fakePrinter) Name() string                     { return "fake" }
func (p *fakePrinter) IsConnected(context.Context) bool { return p.err == nil }
func (p *fakePrinter) Close() error                     { return nil }

func sampleDocument(t *testing.T) *entity.Document {
	t.Helper()
	items := gst.Normalize([]gst.LineItem{
		{Description: "MS Angle", HSNCode: "7216", Quantity: 470, Unit: "KGS", Rate: 85},
		{Description: "Cutting", HSNCode: "9988", Quantity: 470, Unit: "KGS", Rate: 25},
	})
	cfg := gst.TaxConfiguration{TaxType: enum.TaxTypeInterstate, IGSTRate: 18}

	doc := &entity.Document{
		Type:      enum.DocumentTypeInvoice,
		Number:    "INV-0001",
		Date:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Issuer:    entity.Party{Name: "Sri Lakshmi Steels", GSTIN: "29ABCDE1234F1Z5", Address: "Peenya, Bengaluru"},
		Recipient: entity.Party{Name: "Acme Fabricators", GSTIN: "27FGHIJ5678K1Z2", StateCode: "27"},
		TaxType:   cfg.TaxType,
		IGSTRate:  cfg.IGSTRate,
	}
	require.NoError(t, doc.SetLines(items, nil))
	doc.ApplyTotals(gst.ComputeTotals(items, nil, cfg))
	return doc
}

func TestBuildSlip(t *testing.T) {
	slip, err := BuildSlip(sampleDocument(t))
	require.NoError(t, err)

	assert.Equal(t, "TAX INVOICE", slip.Title)
	assert.Equal(t, "01-04-2024", slip.Date)
	require.Len(t, slip.Lines, 2)
	assert.Equal(t, "470.00 KGS x 85.00", slip.Lines[0].QtyRate)
	assert.Equal(t, "39,950.00", slip.Lines[0].Amount)
	require.Len(t, slip.Taxes, 1)
	assert.Equal(t, "Add : IGST @ 18.00 %", slip.Taxes[0].Description)
	assert.Equal(t, "9,306.00", slip.Taxes[0].Amount)
	assert.Equal(t, "61,006.00", slip.Total)
	assert.Equal(t, "0.00", slip.RoundOff)
	assert.Equal(t, "Sixty One Thousand Six Only", slip.TotalInWords)
}

func TestFormatSlip(t *testing.T) {
	slip, err := BuildSlip(sampleDocument(t))
	require.NoError(t, err)

	out := FormatSlip(slip, printer.Width58mm)
	assert.True(t, bytes.Contains(out, []byte("Sri Lakshmi Steels")))
	assert.True(t, bytes.Contains(out, []byte("GRAND TOTAL")))
	assert.True(t, bytes.Contains(out, []byte("61,006.00")))
	// partial cut
	assert.True(t, bytes.HasSuffix(out, []byte{0x1D, 0x56, 0x01}))
}

func TestPrinterService_PrintDocument(t *testing.T) {
	p := &fakePrinter{}
	svc := NewPrinterService(p, printer.Width80mm, nil, zap.NewNop())

	slip, err := svc.PrintDocument(ctx(), sampleDocument(t))
	require.NoError(t, err)
	assert.True(t, slip.Printed)
	assert.Equal(t, "fake", slip.Printer)
	assert.Len(t, p.jobs, 1)

	status := svc.GetStatus(ctx())
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, printer.Width80mm, status.CharWidth)
}

func TestPrinterService_PrintFailureKeepsSlip(t *testing.T) {
	svc := NewPrinterService(&fakePrinter{err: errors.New("connection refused")}, 0, nil, zap.NewNop())

	slip, err := svc.PrintDocument(ctx(), sampleDocument(t))
	require.Error(t, err)
	require.NotNil(t, slip)
	assert.False(t, slip.Printed)
}

func TestPrinterService_NullPrinter(t *testing.T) {
	p, err := printer.New(printer.Config{Type: "none"})
	require.NoError(t, err)
	svc := NewPrinterService(p, printer.Width80mm, nil, zap.NewNop())

	slip, err := svc.PrintDocument(ctx(), sampleDocument(t))
	assert.ErrorIs(t, err, printer.ErrNotConfigured)
	require.NotNil(t, slip)
	assert.False(t, slip.Printed)
	assert.False(t, svc.GetStatus(ctx()).Configured)
}

func TestPrinterService_TestPrint(t *testing.T) {
	p := &fakePrinter{}
	svc := NewPrinterService(p, printer.Width58mm, nil, zap.NewNop())

	slip, err := svc.TestPrint(ctx())
	require.NoError(t, err)
	assert.True(t, slip.Printed)
	require.Len(t, p.jobs, 1)
	assert.True(t, bytes.Contains(p.jobs[0], []byte("TEST PRINT")))
}
