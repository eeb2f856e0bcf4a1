package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/internal/donation/domain"
	"github.com/sevasetu/sevasetu/pkg/db"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, donation *domain.Donation) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO donations (
			id, donor_id, amount, currency_category, payment_mode, status,
			requires_80g, pan, reference, donation_date, note, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		donation.ID,
		donation.DonorID,
		donation.Amount,
		donation.CurrencyCategory,
		donation.PaymentMode,
		donation.Status,
		donation.Requires80G,
		donation.PAN,
		donation.Reference,
		donation.DonationDate,
		donation.Note,
		donation.CreatedAt,
		donation.UpdatedAt,
	).Error
}

func (r *repo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Donation, error) {
	var donation domain.Donation
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM donations WHERE id = ?`+db.LockClause(tx),
		id,
	).Scan(&donation).Error
	if err != nil {
		return nil, err
	}
	if donation.ID == 0 {
		return nil, nil
	}
	return &donation, nil
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Donation, error) {
	var donation domain.Donation
	err := conn.WithContext(ctx).Raw(
		`SELECT * FROM donations WHERE id = ?`,
		id,
	).Scan(&donation).Error
	if err != nil {
		return nil, err
	}
	if donation.ID == 0 {
		return nil, nil
	}
	return &donation, nil
}

func (r *repo) UpdateStatus(ctx context.Context, conn *gorm.DB, donation *domain.Donation) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE donations SET status = ?, updated_at = ? WHERE id = ?`,
		donation.Status,
		donation.UpdatedAt,
		donation.ID,
	).Error
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Donation, int64, error) {
	stmt := conn.WithContext(ctx).Model(&domain.Donation{})

	if filter.DonorID != 0 {
		stmt = stmt.Where("donor_id = ?", filter.DonorID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CurrencyCategory != "" {
		stmt = stmt.Where("currency_category = ?", filter.CurrencyCategory)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var donations []*domain.Donation
	err := stmt.
		Order("donation_date desc, id desc").
		Offset(page.Offset()).
		Limit(page.Normalize().Limit).
		Find(&donations).Error
	if err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}
