package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DonationStatus is the donation lifecycle state.
type DonationStatus string

const (
	StatusPending   DonationStatus = "PENDING"
	StatusCompleted DonationStatus = "COMPLETED"
	StatusVoid      DonationStatus = "VOID"
)

// CurrencyCategory separates local receipts from FCRA (foreign) receipts,
// which are accounted and reported separately.
type CurrencyCategory string

const (
	CurrencyLocal CurrencyCategory = "local"
	CurrencyFCRA  CurrencyCategory = "fcra"
)

// Donation is one pledged or received contribution. Status moves
// PENDING -> COMPLETED exactly once; either state may move to VOID; VOID is
// terminal. Amounts are whole currency units.
type Donation struct {
	ID               snowflake.ID     `gorm:"primaryKey" json:"id"`
	DonorID          snowflake.ID     `gorm:"not null;index" json:"donor_id"`
	Amount           int64            `gorm:"not null" json:"amount"`
	CurrencyCategory CurrencyCategory `gorm:"type:text;not null" json:"currency_category"`
	PaymentMode      string           `gorm:"type:text;not null" json:"payment_mode"`
	Status           DonationStatus   `gorm:"type:text;not null;index" json:"status"`
	Requires80G      bool             `gorm:"column:requires_80g;not null;default:false" json:"requires_80g"`
	PAN              *string          `gorm:"type:text" json:"pan,omitempty"`
	Reference        string           `gorm:"type:text;not null;uniqueIndex" json:"reference"`
	DonationDate     time.Time        `gorm:"not null" json:"donation_date"`
	Note             string           `gorm:"type:text" json:"note,omitempty"`
	CreatedAt        time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Donation) TableName() string { return "donations" }

// CanTransition reports whether the ledger state machine allows from -> to.
// COMPLETED -> COMPLETED is handled by callers as an idempotent no-op, not a
// transition.
func CanTransition(from, to DonationStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusCompleted || to == StatusVoid
	case StatusCompleted:
		return to == StatusVoid
	default:
		return false
	}
}
