// Package domain contains the organization profile model.
package domain

import "time"

// OrgProfile is the single-row organization profile. The fixed primary key
// keeps it one row; there is no create or delete path, only updates against
// the seeded record.
type OrgProfile struct {
	ID                int64     `gorm:"primaryKey" json:"-"`
	Name              string    `gorm:"type:text;not null" json:"name"`
	AddressLine1      string    `gorm:"type:text" json:"address_line1"`
	AddressLine2      string    `gorm:"type:text" json:"address_line2,omitempty"`
	City              string    `gorm:"type:text" json:"city"`
	State             string    `gorm:"type:text" json:"state"`
	PostalCode        string    `gorm:"type:text" json:"postal_code"`
	ContactEmail      string    `gorm:"type:text" json:"contact_email"`
	ContactPhone      string    `gorm:"type:text" json:"contact_phone"`
	Reg80GNumber      string    `gorm:"column:reg_80g_number;type:text" json:"reg_80g_number"`
	FCRAAccountNumber string    `gorm:"column:fcra_account_number;type:text" json:"fcra_account_number"`
	PublicBaseURL     string    `gorm:"column:public_base_url;type:text" json:"public_base_url"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (OrgProfile) TableName() string { return "org_profile" }

// ProfileRowID is the primary key of the only org_profile row.
const ProfileRowID int64 = 1
