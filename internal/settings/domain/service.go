package domain

import (
	"context"
	"errors"
)

// UpdateProfileRequest is a partial update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name              *string `json:"name,omitempty"`
	AddressLine1      *string `json:"address_line1,omitempty"`
	AddressLine2      *string `json:"address_line2,omitempty"`
	City              *string `json:"city,omitempty"`
	State             *string `json:"state,omitempty"`
	PostalCode        *string `json:"postal_code,omitempty"`
	ContactEmail      *string `json:"contact_email,omitempty"`
	ContactPhone      *string `json:"contact_phone,omitempty"`
	Reg80GNumber      *string `json:"reg_80g_number,omitempty"`
	FCRAAccountNumber *string `json:"fcra_account_number,omitempty"`
	PublicBaseURL     *string `json:"public_base_url,omitempty"`
}

type Service interface {
	Get(ctx context.Context) (OrgProfile, error)
	Update(ctx context.Context, req UpdateProfileRequest) (OrgProfile, error)
}

var (
	ErrProfileMissing = errors.New("profile_missing")
	ErrInvalidName    = errors.New("invalid_name")
)
