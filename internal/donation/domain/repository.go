package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	DonorID          snowflake.ID
	Status           DonationStatus
	CurrencyCategory CurrencyCategory
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, donation *Donation) error
	// FindByIDForUpdate locks the row for the remainder of the transaction.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Donation, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Donation, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, donation *Donation) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Donation, int64, error)
}
