package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	DonationID snowflake.ID
	Status     CertificateStatus
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, cert *Certificate) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Certificate, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Certificate, error)
	FindActiveByDonation(ctx context.Context, tx *gorm.DB, donationID snowflake.ID) (*Certificate, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, cert *Certificate) error
	// NextNumber advances the serialized counter within tx and returns the
	// allocated number.
	NextNumber(ctx context.Context, tx *gorm.DB) (int64, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Certificate, int64, error)
}
