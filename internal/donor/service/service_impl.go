package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	"github.com/sevasetu/sevasetu/internal/clock"
	"github.com/sevasetu/sevasetu/internal/donor/domain"
	"github.com/sevasetu/sevasetu/pkg/db"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Audit auditdomain.Recorder
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	audit auditdomain.Recorder
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("donor.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		audit: p.Audit,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDonorRequest) (domain.Donor, error) {
	name := strings.TrimSpace(req.Name)
	missing := []string{}
	if name == "" {
		missing = append(missing, "name")
	}

	switch req.Type {
	case domain.DonorTypeIndividual, domain.DonorTypeCorporate, domain.DonorTypeInternational:
	default:
		return domain.Donor{}, domain.ErrInvalidType
	}

	category := req.Category
	if category == "" {
		if req.Type == domain.DonorTypeInternational {
			category = domain.CategoryForeign
		} else {
			category = domain.CategoryLocal
		}
	}
	if category != domain.CategoryLocal && category != domain.CategoryForeign {
		return domain.Donor{}, domain.ErrInvalidCategory
	}

	now := s.clock.Now()
	donor := domain.Donor{
		ID:        s.genID.Generate(),
		Name:      name,
		Type:      req.Type,
		Category:  category,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch req.Type {
	case domain.DonorTypeIndividual:
		attrs := req.Individual
		if attrs == nil {
			attrs = &domain.IndividualAttrs{}
		}
		if pan := strings.TrimSpace(attrs.PAN); pan != "" {
			if !domain.ValidPAN(pan) {
				missing = append(missing, "pan")
			} else {
				donor.PAN = ptr(strings.ToUpper(pan))
			}
		}
	case domain.DonorTypeCorporate:
		attrs := req.Corporate
		if attrs == nil {
			attrs = &domain.CorporateAttrs{}
		}
		if cin := strings.TrimSpace(attrs.CIN); cin == "" {
			missing = append(missing, "cin")
		} else {
			donor.CIN = ptr(strings.ToUpper(cin))
		}
		if pan := strings.TrimSpace(attrs.PAN); pan == "" || !domain.ValidPAN(pan) {
			missing = append(missing, "pan")
		} else {
			donor.PAN = ptr(strings.ToUpper(pan))
		}
		if csr := strings.TrimSpace(attrs.CSRRegistrationNumber); csr != "" {
			donor.CSRRegistrationNumber = ptr(csr)
		}
	case domain.DonorTypeInternational:
		attrs := req.International
		if attrs == nil {
			attrs = &domain.InternationalAttrs{}
		}
		if country := strings.TrimSpace(attrs.Country); country == "" {
			missing = append(missing, "country")
		} else {
			donor.Country = ptr(country)
		}
		email := strings.TrimSpace(attrs.ContactEmail)
		if email == "" {
			email = donor.Email
		}
		if email == "" || !strings.Contains(email, "@") {
			missing = append(missing, "contact_email")
		} else {
			donor.Email = email
		}
		if taxID := strings.TrimSpace(attrs.TaxID); taxID != "" {
			donor.TaxID = ptr(taxID)
		}
		if ngoType := strings.TrimSpace(attrs.NGOType); ngoType != "" {
			donor.NGOType = ptr(ngoType)
		}
		if cycle := strings.TrimSpace(attrs.FundingCycle); cycle != "" {
			donor.FundingCycle = ptr(cycle)
		}
	}

	if len(missing) > 0 {
		return domain.Donor{}, &domain.MissingFieldsError{Fields: missing}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &donor); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionCreateDonor,
			EntityType: "donor",
			EntityID:   donor.ID.String(),
			Meta: map[string]any{
				"donor_type": string(donor.Type),
				"category":   string(donor.Category),
				"name":       donor.Name,
			},
		})
	})
	if err != nil {
		return domain.Donor{}, err
	}

	return donor, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateDonorRequest) (domain.Donor, error) {
	donorID, err := parseID(id)
	if err != nil {
		return domain.Donor{}, err
	}

	// A variant on the patch that does not match the donor's type would
	// amount to changing the type, which is not allowed after creation.
	var updated domain.Donor
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		donor, err := s.repo.FindByID(ctx, tx, donorID)
		if err != nil {
			return err
		}
		if donor == nil {
			return domain.ErrNotFound
		}

		if req.Individual != nil && donor.Type != domain.DonorTypeIndividual {
			return domain.ErrTypeImmutable
		}
		if req.Corporate != nil && donor.Type != domain.DonorTypeCorporate {
			return domain.ErrTypeImmutable
		}
		if req.International != nil && donor.Type != domain.DonorTypeInternational {
			return domain.ErrTypeImmutable
		}

		before := map[string]any{
			"name":     donor.Name,
			"category": string(donor.Category),
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return &domain.MissingFieldsError{Fields: []string{"name"}}
			}
			donor.Name = name
		}
		if req.Category != nil {
			if *req.Category != domain.CategoryLocal && *req.Category != domain.CategoryForeign {
				return domain.ErrInvalidCategory
			}
			donor.Category = *req.Category
		}
		if req.Email != nil {
			donor.Email = strings.TrimSpace(*req.Email)
		}
		if req.Phone != nil {
			donor.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.Archived != nil {
			donor.Archived = *req.Archived
		}

		if err := applyVariantPatch(donor, req); err != nil {
			return err
		}

		donor.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, tx, donor); err != nil {
			return err
		}

		updated = *donor
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionUpdateDonor,
			EntityType: "donor",
			EntityID:   donor.ID.String(),
			Meta: map[string]any{
				"before": before,
				"after": map[string]any{
					"name":     donor.Name,
					"category": string(donor.Category),
				},
			},
		})
	})
	if err != nil {
		return domain.Donor{}, err
	}
	return updated, nil
}

func applyVariantPatch(donor *domain.Donor, req domain.UpdateDonorRequest) error {
	switch donor.Type {
	case domain.DonorTypeIndividual:
		if req.Individual == nil {
			return nil
		}
		if pan := strings.TrimSpace(req.Individual.PAN); pan != "" {
			if !domain.ValidPAN(pan) {
				return &domain.MissingFieldsError{Fields: []string{"pan"}}
			}
			donor.PAN = ptr(strings.ToUpper(pan))
		}
	case domain.DonorTypeCorporate:
		if req.Corporate == nil {
			return nil
		}
		if cin := strings.TrimSpace(req.Corporate.CIN); cin != "" {
			donor.CIN = ptr(strings.ToUpper(cin))
		}
		if pan := strings.TrimSpace(req.Corporate.PAN); pan != "" {
			if !domain.ValidPAN(pan) {
				return &domain.MissingFieldsError{Fields: []string{"pan"}}
			}
			donor.PAN = ptr(strings.ToUpper(pan))
		}
		if csr := strings.TrimSpace(req.Corporate.CSRRegistrationNumber); csr != "" {
			donor.CSRRegistrationNumber = ptr(csr)
		}
	case domain.DonorTypeInternational:
		if req.International == nil {
			return nil
		}
		if country := strings.TrimSpace(req.International.Country); country != "" {
			donor.Country = ptr(country)
		}
		if taxID := strings.TrimSpace(req.International.TaxID); taxID != "" {
			donor.TaxID = ptr(taxID)
		}
		if ngoType := strings.TrimSpace(req.International.NGOType); ngoType != "" {
			donor.NGOType = ptr(ngoType)
		}
		if cycle := strings.TrimSpace(req.International.FundingCycle); cycle != "" {
			donor.FundingCycle = ptr(cycle)
		}
		if email := strings.TrimSpace(req.International.ContactEmail); email != "" {
			if !strings.Contains(email, "@") {
				return &domain.MissingFieldsError{Fields: []string{"contact_email"}}
			}
			donor.Email = email
		}
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Donor, error) {
	donorID, err := parseID(id)
	if err != nil {
		return domain.Donor{}, err
	}

	donor, err := s.repo.FindByID(ctx, s.db, donorID)
	if err != nil {
		return domain.Donor{}, err
	}
	if donor == nil {
		return domain.Donor{}, domain.ErrNotFound
	}
	return *donor, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDonorRequest) (domain.ListDonorResponse, error) {
	page := req.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Type:     req.Type,
		Category: req.Category,
		Search:   req.Search,
		Archived: req.Archived,
	}, page)
	if err != nil {
		return domain.ListDonorResponse{}, err
	}

	donors := make([]domain.Donor, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		donors = append(donors, *item)
	}

	return domain.ListDonorResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Donors:   donors,
	}, nil
}

// RecomputeTotal recalculates total_donated from COMPLETED donations within
// the caller's transaction. It is recalculated from scratch rather than
// incremented so repeated calls cannot drift from the ledger.
func (s *Service) RecomputeTotal(ctx context.Context, tx *gorm.DB, id string) (int64, error) {
	donorID, err := parseID(id)
	if err != nil {
		return 0, err
	}
	if tx == nil {
		tx = s.db
	}

	// The donor row is locked before the SUM. Two transitions of different
	// donations for the same donor otherwise both read a pre-commit snapshot
	// and the later writer persists a total missing the earlier one.
	var locked snowflake.ID
	err = tx.WithContext(ctx).Raw(
		`SELECT id FROM donors WHERE id = ?`+db.LockClause(tx),
		donorID,
	).Scan(&locked).Error
	if err != nil {
		return 0, err
	}
	if locked == 0 {
		return 0, domain.ErrNotFound
	}

	var total int64
	err = tx.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0)
		 FROM donations
		 WHERE donor_id = ? AND status = 'COMPLETED'`,
		donorID,
	).Scan(&total).Error
	if err != nil {
		return 0, err
	}

	err = tx.WithContext(ctx).Exec(
		`UPDATE donors SET total_donated = ?, updated_at = ? WHERE id = ?`,
		total,
		s.clock.Now(),
		donorID,
	).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func ptr(value string) *string {
	return &value
}
