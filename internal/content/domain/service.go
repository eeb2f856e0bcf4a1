package domain

import (
	"context"
	"errors"

	"github.com/sevasetu/sevasetu/pkg/db/pagination"
)

type CreateContentRequest struct {
	Collection   string         `json:"collection"`
	Slug         string         `json:"slug,omitempty"`
	Title        string         `json:"title"`
	Body         map[string]any `json:"body"`
	Published    bool           `json:"published"`
	DisplayOrder int            `json:"display_order"`
}

type UpdateContentRequest struct {
	Title        *string        `json:"title,omitempty"`
	Body         map[string]any `json:"body,omitempty"`
	Published    *bool          `json:"published,omitempty"`
	DisplayOrder *int           `json:"display_order,omitempty"`
}

type ListContentRequest struct {
	pagination.Pagination
	Collection    string
	PublishedOnly bool
}

type ListContentResponse struct {
	pagination.PageInfo
	Records []ContentRecord `json:"records"`
}

type Service interface {
	Create(ctx context.Context, req CreateContentRequest) (ContentRecord, error)
	Update(ctx context.Context, id string, req UpdateContentRequest) (ContentRecord, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (ContentRecord, error)
	// ListPublished serves the public site; drafts never appear.
	ListPublished(ctx context.Context, collection string) ([]ContentRecord, error)
	List(ctx context.Context, req ListContentRequest) (ListContentResponse, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidCollection = errors.New("invalid_collection")
	ErrInvalidTitle      = errors.New("invalid_title")
	ErrSlugTaken         = errors.New("slug_taken")
	ErrNotFound          = errors.New("not_found")
)
