package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DonorType tags the compliance variant a donor record carries.
type DonorType string

const (
	DonorTypeIndividual    DonorType = "INDIVIDUAL"
	DonorTypeCorporate     DonorType = "CORPORATE"
	DonorTypeInternational DonorType = "INTERNATIONAL"
)

// DonorCategory separates local money from foreign (FCRA) money.
type DonorCategory string

const (
	CategoryLocal   DonorCategory = "local"
	CategoryForeign DonorCategory = "foreign"
)

// Donor is a donor record. The nullable compliance columns form a tagged
// variant over Type: only the columns belonging to the donor's type are set,
// which the service layer enforces at creation. TotalDonated is derived from
// the donation ledger and recomputed, never incremented.
type Donor struct {
	ID       snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name     string        `gorm:"not null" json:"name"`
	Type     DonorType     `gorm:"type:text;not null;index" json:"donor_type"`
	Category DonorCategory `gorm:"type:text;not null" json:"category"`
	Email    string        `gorm:"type:text" json:"email,omitempty"`
	Phone    string        `gorm:"type:text" json:"phone,omitempty"`

	// INDIVIDUAL and CORPORATE
	PAN *string `gorm:"type:text" json:"pan,omitempty"`

	// CORPORATE
	CIN                   *string `gorm:"type:text" json:"cin,omitempty"`
	CSRRegistrationNumber *string `gorm:"type:text" json:"csr_registration_number,omitempty"`

	// INTERNATIONAL
	Country      *string `gorm:"type:text" json:"country,omitempty"`
	TaxID        *string `gorm:"type:text" json:"tax_id,omitempty"`
	NGOType      *string `gorm:"type:text" json:"ngo_type,omitempty"`
	FundingCycle *string `gorm:"type:text" json:"funding_cycle,omitempty"`

	TotalDonated int64 `gorm:"not null;default:0" json:"total_donated"`
	Archived     bool  `gorm:"not null;default:false" json:"archived"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Donor) TableName() string { return "donors" }
