package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Collection    string
	PublishedOnly bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *ContentRecord) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ContentRecord, error)
	Update(ctx context.Context, db *gorm.DB, record *ContentRecord) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	ListPublished(ctx context.Context, db *gorm.DB, collection string) ([]*ContentRecord, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*ContentRecord, int64, error)
}
