package request

// ProfileRequest carries business profile fields for onboarding and updates.
// Omitted fields are left unchanged.
type ProfileRequest struct {
	CompanyName       *string `json:"company_name" binding:"omitempty,min=2,max=255"`
	GSTNumber         *string `json:"gst_number" binding:"omitempty,gstin"`
	Address           *string `json:"address"`
	City              *string `json:"city" binding:"omitempty,max=100"`
	State             *string `json:"state" binding:"omitempty,max=100"`
	StateCode         *string `json:"state_code" binding:"omitempty,len=2,numeric"`
	Pincode           *string `json:"pincode" binding:"omitempty,pincode"`
	Phone             *string `json:"phone" binding:"omitempty,indianphone"`
	Email             *string `json:"email" binding:"omitempty,email"`
	PAN               *string `json:"pan" binding:"omitempty,pan"`
	BankName          *string `json:"bank_name" binding:"omitempty,max=255"`
	BankBranch        *string `json:"bank_branch" binding:"omitempty,max=255"`
	BankIFSC          *string `json:"bank_ifsc" binding:"omitempty,ifsc"`
	BankAccountNumber *string `json:"bank_account_number" binding:"omitempty,max=50"`
	InvoicePrefix     *string `json:"invoice_prefix" binding:"omitempty,max=20"`
	DebitNotePrefix   *string `json:"debit_note_prefix" binding:"omitempty,max=20"`
	CreditNotePrefix  *string `json:"credit_note_prefix" binding:"omitempty,max=20"`
}
