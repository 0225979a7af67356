package request

// ClientRequest carries client fields. CompanyName is checked by the service
// so the same request serves create and partial update.
type ClientRequest struct {
	CompanyName *string `json:"company_name" binding:"omitempty,max=255"`
	OwnerName   *string `json:"owner_name" binding:"omitempty,max=255"`
	GSTNumber   *string `json:"gst_number" binding:"omitempty,gstin"`
	Address     *string `json:"address"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	State       *string `json:"state" binding:"omitempty,max=100"`
	StateCode   *string `json:"state_code" binding:"omitempty,len=2,numeric"`
	Pincode     *string `json:"pincode" binding:"omitempty,pincode"`
	Phone       *string `json:"phone" binding:"omitempty,indianphone"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PAN         *string `json:"pan" binding:"omitempty,pan"`
}

// ClientSearchRequest holds the search filters; exactly one must be set
type ClientSearchRequest struct {
	ID        string `form:"id"`
	Name      string `form:"name"`
	OwnerName string `form:"owner_name"`
	GSTNumber string `form:"gst_number"`
}
