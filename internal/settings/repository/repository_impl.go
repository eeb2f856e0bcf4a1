package repository

import (
	"context"

	"github.com/sevasetu/sevasetu/internal/settings/domain"
	"github.com/sevasetu/sevasetu/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, conn *gorm.DB) (*domain.OrgProfile, error) {
	var profile domain.OrgProfile
	err := conn.WithContext(ctx).Raw(
		`SELECT * FROM org_profile WHERE id = ?`,
		domain.ProfileRowID,
	).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (r *repo) FindForUpdate(ctx context.Context, tx *gorm.DB) (*domain.OrgProfile, error) {
	var profile domain.OrgProfile
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM org_profile WHERE id = ?`+db.LockClause(tx),
		domain.ProfileRowID,
	).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (r *repo) Save(ctx context.Context, conn *gorm.DB, profile *domain.OrgProfile) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE org_profile SET
			name = ?, address_line1 = ?, address_line2 = ?, city = ?, state = ?,
			postal_code = ?, contact_email = ?, contact_phone = ?,
			reg_80g_number = ?, fcra_account_number = ?, public_base_url = ?,
			updated_at = ?
		 WHERE id = ?`,
		profile.Name,
		profile.AddressLine1,
		profile.AddressLine2,
		profile.City,
		profile.State,
		profile.PostalCode,
		profile.ContactEmail,
		profile.ContactPhone,
		profile.Reg80GNumber,
		profile.FCRAAccountNumber,
		profile.PublicBaseURL,
		profile.UpdatedAt,
		profile.ID,
	).Error
}
