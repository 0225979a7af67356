// Package gst computes GST document totals and renders amounts the way Indian
// tax invoices print them.
//
// Everything in this package is pure: no I/O, no shared state. Callers may use it
// concurrently from any number of goroutines.
package gst

import (
	"math"

	"github.com/sangkips/gst-invoice-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// LineItem is a single billed row of a document.
type LineItem struct {
	Description string  `json:"description"`
	HSNCode     string  `json:"hsn_code"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	// ManualAmount keeps a caller-supplied Amount instead of quantity * rate.
	// Used when re-entering historical invoices whose printed amounts are fixed.
	ManualAmount bool `json:"manual_amount,omitempty"`
}

// AdditionalCharge is a flat addition to the taxable base (freight, packing).
// A negative amount acts as a discount.
type AdditionalCharge struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// TaxConfiguration holds the rates for a document. Only the rates matching
// TaxType contribute to the totals.
type TaxConfiguration struct {
	TaxType  enum.TaxType `json:"tax_type"`
	CGSTRate float64      `json:"cgst_rate"`
	SGSTRate float64      `json:"sgst_rate"`
	IGSTRate float64      `json:"igst_rate"`
}

// DocumentTotals is the derived money summary of a document.
type DocumentTotals struct {
	Subtotal            float64 `json:"subtotal"`
	CGSTAmount          float64 `json:"cgst_amount"`
	SGSTAmount          float64 `json:"sgst_amount"`
	IGSTAmount          float64 `json:"igst_amount"`
	TotalTax            float64 `json:"total_tax"`
	TotalBeforeRounding float64 `json:"total_before_rounding"`
	Total               int64   `json:"total"`
	TotalInWords        string  `json:"total_in_words"`
}

// RoundOff is the adjustment printed between the pre-rounding total and the
// rounded grand total.
func (t DocumentTotals) RoundOff() float64 {
	return float64(t.Total) - t.TotalBeforeRounding
}

// ComputeTotals derives subtotal, tax split, rounded total and amount in words.
//
// Item amounts are taken as given; run Normalize first when they may be stale.
// Tax lines keep their full precision, only the grand total is rounded to the
// nearest rupee (half away from zero).
func ComputeTotals(items []LineItem, charges []AdditionalCharge, cfg TaxConfiguration) DocumentTotals {
	var itemsSubtotal, chargesTotal float64
	for _, item := range items {
		itemsSubtotal += item.Amount
	}
	for _, charge := range charges {
		chargesTotal += charge.Amount
	}
	subtotal := itemsSubtotal + chargesTotal

	var cgst, sgst, igst float64
	switch cfg.TaxType {
	case enum.TaxTypeInterstate:
		igst = subtotal * cfg.IGSTRate / 100
	default:
		cgst = subtotal * cfg.CGSTRate / 100
		sgst = subtotal * cfg.SGSTRate / 100
	}

	totalTax := cgst + sgst + igst
	beforeRounding := subtotal + totalTax
	total := roundToRupees(beforeRounding)

	return DocumentTotals{
		Subtotal:            subtotal,
		CGSTAmount:          cgst,
		SGSTAmount:          sgst,
		IGSTAmount:          igst,
		TotalTax:            totalTax,
		TotalBeforeRounding: beforeRounding,
		Total:               total,
		TotalInWords:        AmountInWords(total),
	}
}

// LineAmount is quantity * rate rounded to paise.
func LineAmount(quantity, rate float64) float64 {
	return Round2(quantity * rate)
}

// Round2 rounds to two decimal places, half away from zero, on the decimal
// representation of v so that values like 1.005 round up.
func Round2(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// roundToRupees saturates at the int64 range instead of wrapping.
func roundToRupees(v float64) int64 {
	r := math.Round(v)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	}
	return int64(r)
}

// Normalize returns a copy of items with Amount recomputed from quantity and
// rate, except for rows flagged ManualAmount.
func Normalize(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		if !item.ManualAmount {
			item.Amount = LineAmount(item.Quantity, item.Rate)
		}
		out[i] = item
	}
	return out
}

// ForTaxType zeroes the rates that do not apply to the configured tax type so
// stored documents carry only the components that were charged.
func (c TaxConfiguration) ForTaxType() TaxConfiguration {
	if c.TaxType == enum.TaxTypeInterstate {
		c.CGSTRate, c.SGSTRate = 0, 0
	} else {
		c.IGSTRate = 0
	}
	return c
}
