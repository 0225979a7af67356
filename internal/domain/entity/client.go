package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a business the user bills
type Client struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CompanyName string         `gorm:"size:255;not null" json:"company_name"`
	OwnerName   *string        `gorm:"size:255" json:"owner_name,omitempty"`
	GSTNumber   *string        `gorm:"size:15;index" json:"gst_number,omitempty"`
	Address     *string        `gorm:"type:text" json:"address,omitempty"`
	City        *string        `gorm:"size:100" json:"city,omitempty"`
	State       *string        `gorm:"size:100" json:"state,omitempty"`
	StateCode   *string        `gorm:"size:2" json:"state_code,omitempty"`
	Pincode     *string        `gorm:"size:6" json:"pincode,omitempty"`
	Phone       *string        `gorm:"size:20" json:"phone,omitempty"`
	Email       *string        `gorm:"size:255" json:"email,omitempty"`
	PAN         *string        `gorm:"size:10;column:pan" json:"pan,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new client
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}
