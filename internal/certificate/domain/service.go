package domain

import (
	"context"
	"errors"

	"github.com/sevasetu/sevasetu/pkg/db/pagination"
)

type ListCertificateRequest struct {
	pagination.Pagination
	DonationID string
	Status     CertificateStatus
}

type ListCertificateResponse struct {
	pagination.PageInfo
	Certificates []Certificate `json:"certificates"`
}

type Service interface {
	// Issue creates an ACTIVE certificate for an eligible donation and
	// assigns the next number from the serialized sequence.
	Issue(ctx context.Context, donationID string) (Certificate, error)
	// Void retires a certificate. The number is never freed; issuing a
	// replacement requires a fresh Issue call which re-checks eligibility.
	Void(ctx context.Context, id string, reason string) (Certificate, error)
	GetByID(ctx context.Context, id string) (Certificate, error)
	List(ctx context.Context, req ListCertificateRequest) (ListCertificateResponse, error)
}

var (
	ErrInvalidID                = errors.New("invalid_id")
	ErrDonationNotEligible      = errors.New("donation_not_eligible")
	ErrCertificateAlreadyActive = errors.New("certificate_already_active")
	ErrCertificateAlreadyVoid   = errors.New("certificate_already_void")
	ErrVoidReasonRequired       = errors.New("void_reason_required")
	ErrNotFound                 = errors.New("not_found")
)
