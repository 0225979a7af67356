package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Default document number prefixes.
const (
	DefaultInvoicePrefix    = "INV"
	DefaultDebitNotePrefix  = "DN"
	DefaultCreditNotePrefix = "CN"
)

// BusinessProfile is the issuing business of a user. It also carries the
// per-type numbering counters, which advance only inside the transaction
// that inserts the numbered document.
type BusinessProfile struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CompanyName       string    `gorm:"size:255;not null" json:"company_name"`
	GSTNumber         string    `gorm:"size:15;not null" json:"gst_number"`
	Address           string    `gorm:"type:text;not null" json:"address"`
	City              string    `gorm:"size:100" json:"city"`
	State             string    `gorm:"size:100" json:"state"`
	StateCode         string    `gorm:"size:2" json:"state_code"`
	Pincode           string    `gorm:"size:6" json:"pincode"`
	Phone             string    `gorm:"size:20" json:"phone"`
	Email             string    `gorm:"size:255" json:"email"`
	PAN               string    `gorm:"size:10;column:pan" json:"pan"`
	BankName          string    `gorm:"size:255" json:"bank_name"`
	BankBranch        string    `gorm:"size:255" json:"bank_branch"`
	BankIFSC          string    `gorm:"size:11;column:bank_ifsc" json:"bank_ifsc"`
	BankAccountNumber string    `gorm:"size:50" json:"bank_account_number"`

	// Numbering
	InvoicePrefix        string `gorm:"size:20;default:'INV'" json:"invoice_prefix"`
	NextInvoiceNumber    int    `gorm:"default:1" json:"next_invoice_number"`
	DebitNotePrefix      string `gorm:"size:20;default:'DN'" json:"debit_note_prefix"`
	NextDebitNoteNumber  int    `gorm:"default:1" json:"next_debit_note_number"`
	CreditNotePrefix     string `gorm:"size:20;default:'CN'" json:"credit_note_prefix"`
	NextCreditNoteNumber int    `gorm:"default:1" json:"next_credit_note_number"`

	OnboardedAt *time.Time     `json:"onboarded_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID and fills numbering defaults
func (p *BusinessProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.InvoicePrefix == "" {
		p.InvoicePrefix = DefaultInvoicePrefix
	}
	if p.DebitNotePrefix == "" {
		p.DebitNotePrefix = DefaultDebitNotePrefix
	}
	if p.CreditNotePrefix == "" {
		p.CreditNotePrefix = DefaultCreditNotePrefix
	}
	if p.NextInvoiceNumber < 1 {
		p.NextInvoiceNumber = 1
	}
	if p.NextDebitNoteNumber < 1 {
		p.NextDebitNoteNumber = 1
	}
	if p.NextCreditNoteNumber < 1 {
		p.NextCreditNoteNumber = 1
	}
	return nil
}

// TableName returns the table name for the BusinessProfile model
func (BusinessProfile) TableName() string {
	return "business_profiles"
}

// IsOnboarded reports whether onboarding has been completed
func (p *BusinessProfile) IsOnboarded() bool {
	return p != nil && p.OnboardedAt != nil
}

// Numbering returns the prefix, the next counter value and the counter column
// for documents of type t.
func (p *BusinessProfile) Numbering(t enum.DocumentType) (prefix string, next int, column string) {
	switch t {
	case enum.DocumentTypeDebitNote:
		return p.DebitNotePrefix, p.NextDebitNoteNumber, "next_debit_note_number"
	case enum.DocumentTypeCreditNote:
		return p.CreditNotePrefix, p.NextCreditNoteNumber, "next_credit_note_number"
	default:
		return p.InvoicePrefix, p.NextInvoiceNumber, "next_invoice_number"
	}
}

// NextNumber returns the number the next document of type t will receive
func (p *BusinessProfile) NextNumber(t enum.DocumentType) string {
	prefix, next, _ := p.Numbering(t)
	return FormatDocumentNumber(prefix, next)
}

// FormatDocumentNumber renders prefix-0001 style numbers.
func FormatDocumentNumber(prefix string, n int) string {
	if prefix == "" {
		return fmt.Sprintf("%04d", n)
	}
	return fmt.Sprintf("%s-%04d", prefix, n)
}
