package domain

import (
	"context"
	"errors"
	"time"

	"github.com/sevasetu/sevasetu/pkg/db/pagination"
)

type CreateWindowRequest struct {
	DonorID          string    `json:"donor_id"`
	ProgramName      string    `json:"program_name"`
	Category         string    `json:"category"`
	SubmissionMethod string    `json:"submission_method"`
	OpenDate         time.Time `json:"open_date"`
	CloseDate        time.Time `json:"close_date"`
}

// UpdateWindowRequest is a partial update; Status, when set, must be a legal
// forward transition from the current state.
type UpdateWindowRequest struct {
	ProgramName      *string       `json:"program_name,omitempty"`
	Category         *string       `json:"category,omitempty"`
	SubmissionMethod *string       `json:"submission_method,omitempty"`
	OpenDate         *time.Time    `json:"open_date,omitempty"`
	CloseDate        *time.Time    `json:"close_date,omitempty"`
	Status           *WindowStatus `json:"status,omitempty"`
}

type ListWindowRequest struct {
	pagination.Pagination
	DonorID string
	Status  WindowStatus
}

type ListWindowResponse struct {
	pagination.PageInfo
	Windows []ApplicationWindow `json:"application_windows"`
}

type Service interface {
	Create(ctx context.Context, req CreateWindowRequest) (ApplicationWindow, error)
	Update(ctx context.Context, id string, req UpdateWindowRequest) (ApplicationWindow, error)
	// Delete removes a window while it is still a draft; later states are
	// closed instead so the pipeline history stays intact.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (ApplicationWindow, error)
	List(ctx context.Context, req ListWindowRequest) (ListWindowResponse, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidDonor      = errors.New("invalid_donor")
	ErrInvalidProgram    = errors.New("invalid_program_name")
	ErrInvalidCategory   = errors.New("invalid_category")
	ErrInvalidDateRange  = errors.New("invalid_date_range")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrDeleteNotAllowed  = errors.New("delete_not_allowed")
	ErrNotFound          = errors.New("not_found")
)
