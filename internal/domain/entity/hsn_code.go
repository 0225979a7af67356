package entity

import "time"

// HSNCode is an entry of the HSN/SAC master with its GST rate
type HSNCode struct {
	Code        string    `gorm:"size:8;primaryKey" json:"code"`
	Description string    `gorm:"type:text;not null" json:"description"`
	GSTRate     float64   `gorm:"type:decimal(5,2);default:0" json:"gst_rate"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the HSNCode model
func (HSNCode) TableName() string {
	return "hsn_codes"
}
