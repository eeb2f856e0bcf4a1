package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/internal/certificate/domain"
	"github.com/sevasetu/sevasetu/pkg/db"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, cert *domain.Certificate) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO certificates (
			id, donation_id, certificate_number, status, void_reason,
			issued_at, voided_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cert.ID,
		cert.DonationID,
		cert.CertificateNumber,
		cert.Status,
		cert.VoidReason,
		cert.IssuedAt,
		cert.VoidedAt,
		cert.CreatedAt,
		cert.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Certificate, error) {
	var cert domain.Certificate
	err := conn.WithContext(ctx).Raw(
		`SELECT * FROM certificates WHERE id = ?`,
		id,
	).Scan(&cert).Error
	if err != nil {
		return nil, err
	}
	if cert.ID == 0 {
		return nil, nil
	}
	return &cert, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Certificate, error) {
	var cert domain.Certificate
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM certificates WHERE id = ?`+db.LockClause(tx),
		id,
	).Scan(&cert).Error
	if err != nil {
		return nil, err
	}
	if cert.ID == 0 {
		return nil, nil
	}
	return &cert, nil
}

func (r *repo) FindActiveByDonation(ctx context.Context, tx *gorm.DB, donationID snowflake.ID) (*domain.Certificate, error) {
	var cert domain.Certificate
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM certificates WHERE donation_id = ? AND status = 'ACTIVE' LIMIT 1`,
		donationID,
	).Scan(&cert).Error
	if err != nil {
		return nil, err
	}
	if cert.ID == 0 {
		return nil, nil
	}
	return &cert, nil
}

func (r *repo) UpdateStatus(ctx context.Context, conn *gorm.DB, cert *domain.Certificate) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE certificates SET status = ?, void_reason = ?, voided_at = ?, updated_at = ?
		 WHERE id = ?`,
		cert.Status,
		cert.VoidReason,
		cert.VoidedAt,
		cert.UpdatedAt,
		cert.ID,
	).Error
}

// NextNumber locks the counter row for the remainder of tx, so two issuing
// transactions cannot hold the same value. The counter row is seeded at
// bootstrap; if it is missing the sequence restarts above the highest
// assigned number rather than reusing one.
func (r *repo) NextNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	now := time.Now().UTC()

	var counter domain.CertificateCounter
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM certificate_counters WHERE id = 1`+db.LockClause(tx),
	).Scan(&counter).Error
	if err != nil {
		return 0, err
	}

	if counter.ID == 0 {
		var maxAssigned int64
		err := tx.WithContext(ctx).Raw(
			`SELECT COALESCE(MAX(certificate_number), 0) FROM certificates`,
		).Scan(&maxAssigned).Error
		if err != nil {
			return 0, err
		}
		next := maxAssigned + 1
		err = tx.WithContext(ctx).Exec(
			`INSERT INTO certificate_counters (id, value, updated_at) VALUES (1, ?, ?)`,
			next,
			now,
		).Error
		if err != nil {
			return 0, err
		}
		return next, nil
	}

	next := counter.Value + 1
	err = tx.WithContext(ctx).Exec(
		`UPDATE certificate_counters SET value = ?, updated_at = ? WHERE id = 1`,
		next,
		now,
	).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Certificate, int64, error) {
	stmt := conn.WithContext(ctx).Model(&domain.Certificate{})

	if filter.DonationID != 0 {
		stmt = stmt.Where("donation_id = ?", filter.DonationID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var certs []*domain.Certificate
	err := stmt.
		Order("certificate_number desc").
		Offset(page.Offset()).
		Limit(page.Normalize().Limit).
		Find(&certs).Error
	if err != nil {
		return nil, 0, err
	}
	return certs, total, nil
}
