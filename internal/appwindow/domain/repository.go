package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	DonorID snowflake.ID
	Status  WindowStatus
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, window *ApplicationWindow) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ApplicationWindow, error)
	Update(ctx context.Context, db *gorm.DB, window *ApplicationWindow) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*ApplicationWindow, int64, error)
}
