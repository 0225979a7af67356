package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/enum"
)

// LineItemRequest is one billed row
type LineItemRequest struct {
	Description string   `json:"description" binding:"required,max=500"`
	HSNCode     string   `json:"hsn_code" binding:"omitempty,hsn"`
	Quantity    float64  `json:"quantity" binding:"gte=0,lte=10000000"`
	Unit        string   `json:"unit" binding:"omitempty,max=20"`
	Rate        float64  `json:"rate" binding:"gte=0,lte=10000000000"`
	Amount      *float64 `json:"amount" binding:"omitempty,gte=-1000000000000000,lte=1000000000000000"`
}

// ChargeRequest is an additional charge; negative amounts are discounts
type ChargeRequest struct {
	Description string  `json:"description" binding:"required,max=255"`
	Amount      float64 `json:"amount" binding:"gte=-1000000000000000,lte=1000000000000000"`
}

// PartyRequest is an inline recipient
type PartyRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	Address   string `json:"address"`
	GSTIN     string `json:"gstin" binding:"omitempty,gstin"`
	State     string `json:"state" binding:"omitempty,max=100"`
	StateCode string `json:"state_code" binding:"omitempty,len=2,numeric"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
	Email     string `json:"email" binding:"omitempty,email"`
	PAN       string `json:"pan" binding:"omitempty,pan"`
}

// DraftRequest is the body of a totals preview
type DraftRequest struct {
	TaxType  *enum.TaxType     `json:"tax_type"`
	CGSTRate float64           `json:"cgst_rate" binding:"gte=0,lte=100"`
	SGSTRate float64           `json:"sgst_rate" binding:"gte=0,lte=100"`
	IGSTRate float64           `json:"igst_rate" binding:"gte=0,lte=100"`
	Items    []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Charges  []ChargeRequest   `json:"additional_charges" binding:"omitempty,dive"`
}

// TransportRequest holds dispatch details
type TransportRequest struct {
	Name          string `json:"name" binding:"omitempty,max=255"`
	VehicleNumber string `json:"vehicle_number" binding:"omitempty,max=20"`
	Station       string `json:"station" binding:"omitempty,max=100"`
	EWayBillNo    string `json:"eway_bill_no" binding:"omitempty,max=20"`
}

// CreateDocumentRequest is the body of a new invoice, debit note or credit note
type CreateDocumentRequest struct {
	DraftRequest

	Type                enum.DocumentType `json:"type"`
	Number              string            `json:"number" binding:"omitempty,max=50"`
	Date                *time.Time        `json:"date"`
	ClientID            *uuid.UUID        `json:"client_id"`
	Recipient           *PartyRequest     `json:"recipient"`
	PlaceOfSupply       string            `json:"place_of_supply" binding:"omitempty,max=100"`
	ReverseCharge       bool              `json:"reverse_charge"`
	Transport           TransportRequest  `json:"transport"`
	IRN                 *string           `json:"irn" binding:"omitempty,max=64"`
	AckNo               *string           `json:"ack_no" binding:"omitempty,max=50"`
	AckDate             *time.Time        `json:"ack_date"`
	Notes               *string           `json:"notes"`
	ReferenceDocumentID *uuid.UUID        `json:"reference_document_id"`
}

// DocumentListRequest holds listing filters
type DocumentListRequest struct {
	Type     string `form:"type"`
	ClientID string `form:"client_id"`
	Search   string `form:"search"`
}

// DocumentSearchRequest holds the search filters; exactly one must be set
type DocumentSearchRequest struct {
	ID                 string `form:"id"`
	InvoiceNumber      string `form:"invoice_number"`
	RecipientName      string `form:"recipient_name"`
	RecipientGSTNumber string `form:"recipient_gst_number"`
}
