package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/enum"
	"github.com/sangkips/gst-invoice-api/internal/domain/gst"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Party is the issuer or recipient block printed on a document. It is a
// snapshot taken when the document is issued, so later edits to the profile
// or client do not change issued documents.
type Party struct {
	Name      string `gorm:"size:255" json:"name"`
	Address   string `gorm:"type:text" json:"address,omitempty"`
	GSTIN     string `gorm:"size:15;column:gstin" json:"gstin,omitempty"`
	State     string `gorm:"size:100" json:"state,omitempty"`
	StateCode string `gorm:"size:2" json:"state_code,omitempty"`
	Phone     string `gorm:"size:20" json:"phone,omitempty"`
	Email     string `gorm:"size:255" json:"email,omitempty"`
	PAN       string `gorm:"size:10;column:pan" json:"pan,omitempty"`
}

// BankDetails is the issuer's bank account printed in the footer
type BankDetails struct {
	Name          string `gorm:"size:255" json:"name,omitempty"`
	Branch        string `gorm:"size:255" json:"branch,omitempty"`
	IFSC          string `gorm:"size:11;column:ifsc" json:"ifsc,omitempty"`
	AccountNumber string `gorm:"size:50" json:"account_number,omitempty"`
}

// Transport holds dispatch details
type Transport struct {
	Name          string `gorm:"size:255" json:"name,omitempty"`
	VehicleNumber string `gorm:"size:20" json:"vehicle_number,omitempty"`
	Station       string `gorm:"size:100" json:"station,omitempty"`
	EWayBillNo    string `gorm:"size:20;column:eway_bill_no" json:"eway_bill_no,omitempty"`
}

// Document is an issued tax invoice, debit note or credit note
type Document struct {
	ID       uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_documents_user_number" json:"user_id"`
	ClientID *uuid.UUID        `gorm:"type:uuid;index" json:"client_id,omitempty"`
	Type     enum.DocumentType `gorm:"not null;default:0;index" json:"type"`
	Number   string            `gorm:"size:50;not null;uniqueIndex:idx_documents_user_number" json:"number"`
	// ManualNumber marks legacy documents entered with a number of their own.
	ManualNumber bool      `gorm:"default:false" json:"manual_number"`
	Date         time.Time `gorm:"not null" json:"date"`

	Issuer    Party       `gorm:"embedded;embeddedPrefix:issuer_" json:"issuer"`
	Recipient Party       `gorm:"embedded;embeddedPrefix:recipient_" json:"recipient"`
	Bank      BankDetails `gorm:"embedded;embeddedPrefix:bank_" json:"bank"`

	TaxType  enum.TaxType `gorm:"not null;default:0" json:"tax_type"`
	CGSTRate float64      `gorm:"type:decimal(5,2);default:0" json:"cgst_rate"`
	SGSTRate float64      `gorm:"type:decimal(5,2);default:0" json:"sgst_rate"`
	IGSTRate float64      `gorm:"type:decimal(5,2);default:0" json:"igst_rate"`

	ItemsJSON   datatypes.JSON `gorm:"column:items" json:"items"`
	ChargesJSON datatypes.JSON `gorm:"column:additional_charges" json:"additional_charges"`

	Subtotal            float64 `gorm:"type:decimal(15,2);default:0" json:"subtotal"`
	CGSTAmount          float64 `gorm:"type:decimal(15,2);default:0" json:"cgst_amount"`
	SGSTAmount          float64 `gorm:"type:decimal(15,2);default:0" json:"sgst_amount"`
	IGSTAmount          float64 `gorm:"type:decimal(15,2);default:0" json:"igst_amount"`
	TotalTax            float64 `gorm:"type:decimal(15,2);default:0" json:"total_tax"`
	TotalBeforeRounding float64 `gorm:"type:decimal(15,2);default:0" json:"total_before_rounding"`
	Total               int64   `gorm:"default:0" json:"total"`
	TotalInWords        string  `gorm:"size:512" json:"total_in_words"`

	PlaceOfSupply string    `gorm:"size:100" json:"place_of_supply,omitempty"`
	ReverseCharge bool      `gorm:"default:false" json:"reverse_charge"`
	Transport     Transport `gorm:"embedded;embeddedPrefix:transport_" json:"transport"`

	IRN     *string    `gorm:"size:64;column:irn" json:"irn,omitempty"`
	AckNo   *string    `gorm:"size:50" json:"ack_no,omitempty"`
	AckDate *time.Time `json:"ack_date,omitempty"`
	Notes   *string    `gorm:"type:text" json:"notes,omitempty"`

	ReferenceDocumentID *uuid.UUID `gorm:"type:uuid;index" json:"reference_document_id,omitempty"`
	ReferenceNumber     *string    `gorm:"size:50" json:"reference_number,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User   User    `gorm:"foreignKey:UserID" json:"-"`
	Client *Client `gorm:"foreignKey:ClientID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new document
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Document model
func (Document) TableName() string {
	return "documents"
}

// Items decodes the stored line items
func (d *Document) Items() ([]gst.LineItem, error) {
	var items []gst.LineItem
	if len(d.ItemsJSON) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(d.ItemsJSON, &items); err != nil {
		return nil, fmt.Errorf("decode items of document %s: %w", d.ID, err)
	}
	return items, nil
}

// AdditionalCharges decodes the stored additional charges
func (d *Document) AdditionalCharges() ([]gst.AdditionalCharge, error) {
	var charges []gst.AdditionalCharge
	if len(d.ChargesJSON) == 0 {
		return charges, nil
	}
	if err := json.Unmarshal(d.ChargesJSON, &charges); err != nil {
		return nil, fmt.Errorf("decode charges of document %s: %w", d.ID, err)
	}
	return charges, nil
}

// SetLines stores items and charges as JSON columns
func (d *Document) SetLines(items []gst.LineItem, charges []gst.AdditionalCharge) error {
	if items == nil {
		items = []gst.LineItem{}
	}
	if charges == nil {
		charges = []gst.AdditionalCharge{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return err
	}
	chargesJSON, err := json.Marshal(charges)
	if err != nil {
		return err
	}
	d.ItemsJSON = datatypes.JSON(itemsJSON)
	d.ChargesJSON = datatypes.JSON(chargesJSON)
	return nil
}

// TaxConfiguration returns the rates the document was issued with
func (d *Document) TaxConfiguration() gst.TaxConfiguration {
	return gst.TaxConfiguration{
		TaxType:  d.TaxType,
		CGSTRate: d.CGSTRate,
		SGSTRate: d.SGSTRate,
		IGSTRate: d.IGSTRate,
	}
}

// ApplyTotals copies computed totals onto the document
func (d *Document) ApplyTotals(t gst.DocumentTotals) {
	d.Subtotal = t.Subtotal
	d.CGSTAmount = t.CGSTAmount
	d.SGSTAmount = t.SGSTAmount
	d.IGSTAmount = t.IGSTAmount
	d.TotalTax = t.TotalTax
	d.TotalBeforeRounding = t.TotalBeforeRounding
	d.Total = t.Total
	d.TotalInWords = t.TotalInWords
}

// Totals returns the stored totals
func (d *Document) Totals() gst.DocumentTotals {
	return gst.DocumentTotals{
		Subtotal:            d.Subtotal,
		CGSTAmount:          d.CGSTAmount,
		SGSTAmount:          d.SGSTAmount,
		IGSTAmount:          d.IGSTAmount,
		TotalTax:            d.TotalTax,
		TotalBeforeRounding: d.TotalBeforeRounding,
		Total:               d.Total,
		TotalInWords:        d.TotalInWords,
	}
}
