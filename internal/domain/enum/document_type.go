package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// DocumentType distinguishes tax invoices from debit and credit notes
type DocumentType int

const (
	DocumentTypeInvoice    DocumentType = 0
	DocumentTypeDebitNote  DocumentType = 1
	DocumentTypeCreditNote DocumentType = 2
)

var documentTypeNames = [...]string{"invoice", "debit-note", "credit-note"}

// AllDocumentTypes lists every document type in numbering order.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{DocumentTypeInvoice, DocumentTypeDebitNote, DocumentTypeCreditNote}
}

func (d DocumentType) String() string {
	if int(d) < 0 || int(d) >= len(documentTypeNames) {
		return documentTypeNames[DocumentTypeInvoice]
	}
	return documentTypeNames[d]
}

// Title is the heading printed at the top of the document.
func (d DocumentType) Title() string {
	switch d {
	case DocumentTypeDebitNote:
		return "DEBIT NOTE"
	case DocumentTypeCreditNote:
		return "CREDIT NOTE"
	default:
		return "TAX INVOICE"
	}
}

// IsNote reports whether the document adjusts an earlier invoice.
func (d DocumentType) IsNote() bool {
	return d == DocumentTypeDebitNote || d == DocumentTypeCreditNote
}

// ParseDocumentType accepts "invoice", "debit-note" and "credit-note" (underscores allowed).
func ParseDocumentType(s string) (DocumentType, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, name := range documentTypeNames {
		if name == normalized {
			return DocumentType(i), nil
		}
	}
	return DocumentTypeInvoice, fmt.Errorf("unknown document type %q", s)
}

func (d DocumentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DocumentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if i < 0 || i >= len(documentTypeNames) {
			return fmt.Errorf("unknown document type %d", i)
		}
		*d = DocumentType(i)
		return nil
	}
	parsed, err := ParseDocumentType(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d DocumentType) Value() (driver.Value, error) {
	return int64(d), nil
}

func (d *DocumentType) Scan(value interface{}) error {
	var n int64
	switch v := value.(type) {
	case nil:
		*d = DocumentTypeInvoice
		return nil
	case int64:
		n = v
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	default:
		return fmt.Errorf("cannot scan %T into document type", value)
	}
	if n < 0 || n >= int64(len(documentTypeNames)) {
		return fmt.Errorf("unknown document type %d", n)
	}
	*d = DocumentType(n)
	return nil
}
