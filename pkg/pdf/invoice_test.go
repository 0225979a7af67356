package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() InvoiceData {
	return InvoiceData{
		Title:  "TAX INVOICE",
		Number: "INV-0001",
		Date:   "01-04-2024",
		Issuer: Party{
			Name:    "Sri Lakshmi Steels",
			Address: "12 Industrial Estate, Peenya, Bengaluru",
			GSTIN:   "29ABCDE1234F1Z5",
			PAN:     "ABCDE1234F",
		},
		Recipient: Party{
			Name:      "Acme Fabricators",
			Address:   "Plot 4, MIDC, Pune",
			GSTIN:     "27FGHIJ5678K1Z2",
			State:     "Maharashtra",
			StateCode: "27",
		},
		Items: []Item{
			{Description: "MS Angle", HSNCode: "7216", Quantity: "470.00", Unit: "KGS", Rate: "85.00", Amount: "39,950.00"},
			{Description: "Cutting", HSNCode: "9988", Quantity: "470.00", Unit: "KGS", Rate: "25.00", Amount: "11,750.00"},
		},
		Taxes:        []Line{{Label: "Add : IGST @ 18.00 %", Amount: "9,306.00"}},
		Subtotal:     "51,700.00",
		RoundOff:     "0.00",
		Total:        "61,006.00",
		TotalInWords: "Sixty One Thousand Six Only",
		Bank:         &Bank{Name: "State Bank of India", AccountNumber: "1234567890", IFSC: "SBIN0001234"},
		IRN:          "abc123",
		AckNo:        "112410000000001",
	}
}

func TestRenderInvoice(t *testing.T) {
	out, err := RenderInvoice(sampleInvoice())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 1000)
}

func TestRenderInvoice_MinimalNote(t *testing.T) {
	data := InvoiceData{
		Title:           "CREDIT NOTE",
		Number:          "CN-0001",
		ReferenceNumber: "INV-0001",
		Issuer:          Party{Name: "Issuer"},
		Recipient:       Party{Name: "Walk-in"},
		Total:           "0.00",
		TotalInWords:    "Zero Only",
	}

	out, err := RenderInvoice(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "a, c", joinNonEmpty(", ", "a", "", "c"))
	assert.Equal(t, "", joinNonEmpty(", ", "", ""))
}
