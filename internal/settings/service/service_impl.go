package service

import (
	"context"
	"strings"

	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	"github.com/sevasetu/sevasetu/internal/clock"
	"github.com/sevasetu/sevasetu/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
	Audit auditdomain.Recorder
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
	audit auditdomain.Recorder
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("settings.service"),
		clock: p.Clock,
		repo:  p.Repo,
		audit: p.Audit,
	}
}

func (s *Service) Get(ctx context.Context) (domain.OrgProfile, error) {
	profile, err := s.repo.Find(ctx, s.db)
	if err != nil {
		return domain.OrgProfile{}, err
	}
	if profile == nil {
		return domain.OrgProfile{}, domain.ErrProfileMissing
	}
	return *profile, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProfileRequest) (domain.OrgProfile, error) {
	var updated domain.OrgProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := s.repo.FindForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.ErrProfileMissing
		}

		before := snapshot(profile)
		applyPatch(profile, req)
		if strings.TrimSpace(profile.Name) == "" {
			return domain.ErrInvalidName
		}
		profile.UpdatedAt = s.clock.Now()

		if err := s.repo.Save(ctx, tx, profile); err != nil {
			return err
		}

		updated = *profile
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionUpdateSettings,
			EntityType: "org_profile",
			EntityID:   "1",
			Meta: map[string]any{
				"before": before,
				"after":  snapshot(profile),
			},
		})
	})
	if err != nil {
		return domain.OrgProfile{}, err
	}
	return updated, nil
}

func applyPatch(profile *domain.OrgProfile, req domain.UpdateProfileRequest) {
	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.AddressLine1 != nil {
		profile.AddressLine1 = strings.TrimSpace(*req.AddressLine1)
	}
	if req.AddressLine2 != nil {
		profile.AddressLine2 = strings.TrimSpace(*req.AddressLine2)
	}
	if req.City != nil {
		profile.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		profile.State = strings.TrimSpace(*req.State)
	}
	if req.PostalCode != nil {
		profile.PostalCode = strings.TrimSpace(*req.PostalCode)
	}
	if req.ContactEmail != nil {
		profile.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.ContactPhone != nil {
		profile.ContactPhone = strings.TrimSpace(*req.ContactPhone)
	}
	if req.Reg80GNumber != nil {
		profile.Reg80GNumber = strings.TrimSpace(*req.Reg80GNumber)
	}
	if req.FCRAAccountNumber != nil {
		profile.FCRAAccountNumber = strings.TrimSpace(*req.FCRAAccountNumber)
	}
	if req.PublicBaseURL != nil {
		profile.PublicBaseURL = strings.TrimRight(strings.TrimSpace(*req.PublicBaseURL), "/")
	}
}

func snapshot(profile *domain.OrgProfile) map[string]any {
	return map[string]any{
		"name":                profile.Name,
		"reg_80g_number":      profile.Reg80GNumber,
		"fcra_account_number": profile.FCRAAccountNumber,
		"public_base_url":     profile.PublicBaseURL,
		"contact_email":       profile.ContactEmail,
	}
}
