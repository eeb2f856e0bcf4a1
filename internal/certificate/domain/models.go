package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// CertificateStatus is the certificate lifecycle state. A voided certificate
// is never re-activated and its number is never reused.
type CertificateStatus string

const (
	StatusActive CertificateStatus = "ACTIVE"
	StatusVoid   CertificateStatus = "VOID"
)

// Certificate is an 80G tax-exemption certificate bound to one COMPLETED
// donation. At most one ACTIVE certificate exists per donation.
type Certificate struct {
	ID                snowflake.ID      `gorm:"primaryKey" json:"id"`
	DonationID        snowflake.ID      `gorm:"not null;index" json:"donation_id"`
	CertificateNumber int64             `gorm:"not null;uniqueIndex" json:"certificate_number"`
	Status            CertificateStatus `gorm:"type:text;not null;index" json:"status"`
	VoidReason        *string           `gorm:"type:text" json:"void_reason,omitempty"`
	IssuedAt          time.Time         `gorm:"not null" json:"issued_at"`
	VoidedAt          *time.Time        `json:"voided_at,omitempty"`
	CreatedAt         time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Certificate) TableName() string { return "certificates" }

// CertificateCounter is the single-row serialized source of certificate
// numbers. The issuing transaction locks this row so concurrent issuance
// cannot allocate the same number.
type CertificateCounter struct {
	ID        int       `gorm:"primaryKey"`
	Value     int64     `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (CertificateCounter) TableName() string { return "certificate_counters" }

// FormatNumber renders the presentation form of a certificate number. The
// ledger keeps the bare integer; formatting is display-only.
func FormatNumber(value int64) string {
	return fmt.Sprintf("80G-%06d", value)
}
