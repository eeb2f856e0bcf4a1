package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

// IndividualAttrs are the compliance attributes for individual donors.
// PAN is optional at intake; it becomes mandatory only when an 80G-eligible
// donation is recorded.
type IndividualAttrs struct {
	PAN string `json:"pan"`
}

// CorporateAttrs are the statutory CSR attributes for corporate donors.
type CorporateAttrs struct {
	CIN                   string `json:"cin"`
	PAN                   string `json:"pan"`
	CSRRegistrationNumber string `json:"csr_registration_number"`
}

// InternationalAttrs are the FCRA attributes for international funders.
type InternationalAttrs struct {
	Country      string `json:"country"`
	TaxID        string `json:"tax_id"`
	NGOType      string `json:"ngo_type"`
	FundingCycle string `json:"funding_cycle"`
	ContactEmail string `json:"contact_email"`
}

// CreateDonorRequest carries exactly one variant matching Type.
type CreateDonorRequest struct {
	Name     string        `json:"name"`
	Type     DonorType     `json:"donor_type"`
	Category DonorCategory `json:"category"`
	Email    string        `json:"email"`
	Phone    string        `json:"phone"`

	Individual    *IndividualAttrs    `json:"individual,omitempty"`
	Corporate     *CorporateAttrs     `json:"corporate,omitempty"`
	International *InternationalAttrs `json:"international,omitempty"`
}

// UpdateDonorRequest is a partial update. Type is immutable after creation;
// nil fields are left untouched.
type UpdateDonorRequest struct {
	Name     *string        `json:"name,omitempty"`
	Category *DonorCategory `json:"category,omitempty"`
	Email    *string        `json:"email,omitempty"`
	Phone    *string        `json:"phone,omitempty"`
	Archived *bool          `json:"archived,omitempty"`

	Individual    *IndividualAttrs    `json:"individual,omitempty"`
	Corporate     *CorporateAttrs     `json:"corporate,omitempty"`
	International *InternationalAttrs `json:"international,omitempty"`
}

type ListDonorRequest struct {
	pagination.Pagination
	Type     DonorType
	Category DonorCategory
	Search   string
	Archived *bool
}

type ListDonorResponse struct {
	pagination.PageInfo
	Donors []Donor `json:"donors"`
}

type Service interface {
	Create(ctx context.Context, req CreateDonorRequest) (Donor, error)
	Update(ctx context.Context, id string, req UpdateDonorRequest) (Donor, error)
	GetByID(ctx context.Context, id string) (Donor, error)
	List(ctx context.Context, req ListDonorRequest) (ListDonorResponse, error)
	// RecomputeTotal recalculates the donor's total from the donation ledger.
	// Idempotent; safe to call after any donation transition.
	RecomputeTotal(ctx context.Context, tx *gorm.DB, id string) (int64, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidType     = errors.New("invalid_donor_type")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrTypeImmutable   = errors.New("donor_type_immutable")
	ErrNotFound        = errors.New("not_found")
)

// MissingFieldsError reports every missing or malformed required field at once.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

var panPattern = regexp.MustCompile(`^[A-Za-z0-9]{10}$`)

// ValidPAN reports whether value is a well-formed PAN (10 alphanumeric).
func ValidPAN(value string) bool {
	return panPattern.MatchString(strings.TrimSpace(value))
}
