package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/internal/donor/domain"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, donor *domain.Donor) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO donors (
			id, name, type, category, email, phone,
			pan, cin, csr_registration_number,
			country, tax_id, ngo_type, funding_cycle,
			total_donated, archived, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		donor.ID,
		donor.Name,
		donor.Type,
		donor.Category,
		donor.Email,
		donor.Phone,
		donor.PAN,
		donor.CIN,
		donor.CSRRegistrationNumber,
		donor.Country,
		donor.TaxID,
		donor.NGOType,
		donor.FundingCycle,
		donor.TotalDonated,
		donor.Archived,
		donor.CreatedAt,
		donor.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, donor *domain.Donor) error {
	return db.WithContext(ctx).Exec(
		`UPDATE donors SET
			name = ?, category = ?, email = ?, phone = ?,
			pan = ?, cin = ?, csr_registration_number = ?,
			country = ?, tax_id = ?, ngo_type = ?, funding_cycle = ?,
			archived = ?, updated_at = ?
		 WHERE id = ?`,
		donor.Name,
		donor.Category,
		donor.Email,
		donor.Phone,
		donor.PAN,
		donor.CIN,
		donor.CSRRegistrationNumber,
		donor.Country,
		donor.TaxID,
		donor.NGOType,
		donor.FundingCycle,
		donor.Archived,
		donor.UpdatedAt,
		donor.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Donor, error) {
	var donor domain.Donor
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM donors WHERE id = ?`,
		id,
	).Scan(&donor).Error
	if err != nil {
		return nil, err
	}
	if donor.ID == 0 {
		return nil, nil
	}
	return &donor, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Donor, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Donor{})

	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if filter.Archived != nil {
		stmt = stmt.Where("archived = ?", *filter.Archived)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var donors []*domain.Donor
	err := stmt.
		Order("created_at desc, id desc").
		Offset(page.Offset()).
		Limit(page.Normalize().Limit).
		Find(&donors).Error
	if err != nil {
		return nil, 0, err
	}
	return donors, total, nil
}
