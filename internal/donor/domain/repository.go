package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Type     DonorType
	Category DonorCategory
	Search   string
	Archived *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, donor *Donor) error
	Update(ctx context.Context, db *gorm.DB, donor *Donor) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Donor, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Donor, int64, error)
}
