package entity

// PrintSlipLine is one row of a thermal print slip.
type PrintSlipLine struct {
	Description string `json:"description"`
	HSNCode     string `json:"hsn_code,omitempty"`
	QtyRate     string `json:"qty_rate"`
	Amount      string `json:"amount"`
}

// PrintSlip is the printable view of a document sent to the thermal printer.
// It is not stored; it is composed from a document at print time.
type PrintSlip struct {
	Title        string          `json:"title"`
	IssuerName   string          `json:"issuer_name"`
	IssuerGSTIN  string          `json:"issuer_gstin,omitempty"`
	Address      string          `json:"address,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Number       string          `json:"number"`
	Date         string          `json:"date"`
	Recipient    string          `json:"recipient"`
	RecipientTIN string          `json:"recipient_gstin,omitempty"`
	Lines        []PrintSlipLine `json:"lines"`
	Charges      []PrintSlipLine `json:"charges,omitempty"`
	Subtotal     string          `json:"subtotal"`
	Taxes        []PrintSlipLine `json:"taxes"`
	RoundOff     string          `json:"round_off"`
	Total        string          `json:"total"`
	TotalInWords string          `json:"total_in_words"`
	Printed      bool            `json:"printed"`
	Printer      string          `json:"printer"`
}
