package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
)

// CreateDonationRequest records a donation against an existing donor.
// StaffEntered donations may start COMPLETED (verified at entry); public
// self-reported intake always starts PENDING regardless of Status.
type CreateDonationRequest struct {
	DonorID          string           `json:"donor_id"`
	Amount           int64            `json:"amount"`
	CurrencyCategory CurrencyCategory `json:"currency_category"`
	PaymentMode      string           `json:"payment_mode"`
	Requires80G      bool             `json:"requires_80g"`
	PAN              string           `json:"pan"`
	DonationDate     *time.Time       `json:"donation_date,omitempty"`
	Note             string           `json:"note"`
	Status           DonationStatus   `json:"status"`
	StaffEntered     bool             `json:"-"`
}

type ListDonationRequest struct {
	pagination.Pagination
	DonorID          string
	Status           DonationStatus
	CurrencyCategory CurrencyCategory
}

type ListDonationResponse struct {
	pagination.PageInfo
	Donations []Donation `json:"donations"`
}

type Service interface {
	Create(ctx context.Context, req CreateDonationRequest) (Donation, error)
	// TransitionStatus applies one state-machine step, recomputes the owning
	// donor's total, and writes the audit entry, all in one transaction.
	TransitionStatus(ctx context.Context, id string, status DonationStatus) (Donation, error)
	GetByID(ctx context.Context, id string) (Donation, error)
	List(ctx context.Context, req ListDonationRequest) (ListDonationResponse, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidDonor      = errors.New("invalid_donor")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidCategory   = errors.New("invalid_currency_category")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrPANRequired       = errors.New("pan_required")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrNotFound          = errors.New("not_found")
)

// ID parsing shared with the certificate issuer.
func ParseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(value)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
