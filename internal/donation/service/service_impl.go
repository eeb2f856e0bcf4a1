package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	"github.com/sevasetu/sevasetu/internal/clock"
	"github.com/sevasetu/sevasetu/internal/donation/domain"
	donordomain "github.com/sevasetu/sevasetu/internal/donor/domain"
	"github.com/sevasetu/sevasetu/internal/observability/metrics"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Donors  donordomain.Service
	Audit   auditdomain.Recorder
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	donors  donordomain.Service
	audit   auditdomain.Recorder
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("donation.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		donors:  p.Donors,
		audit:   p.Audit,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDonationRequest) (domain.Donation, error) {
	donorID, err := domain.ParseID(strings.TrimSpace(req.DonorID))
	if err != nil {
		return domain.Donation{}, domain.ErrInvalidDonor
	}
	if req.Amount <= 0 {
		return domain.Donation{}, domain.ErrInvalidAmount
	}

	status := req.Status
	switch status {
	case "", domain.StatusPending:
		status = domain.StatusPending
	case domain.StatusCompleted:
		// Only staff-verified entries may land directly as COMPLETED.
		if !req.StaffEntered {
			status = domain.StatusPending
		}
	default:
		return domain.Donation{}, domain.ErrInvalidStatus
	}

	var created domain.Donation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		donor, err := s.loadDonor(ctx, tx, donorID)
		if err != nil {
			return err
		}
		if donor == nil {
			return domain.ErrInvalidDonor
		}

		category := req.CurrencyCategory
		if category == "" {
			if donor.Category == donordomain.CategoryForeign {
				category = domain.CurrencyFCRA
			} else {
				category = domain.CurrencyLocal
			}
		}
		if category != domain.CurrencyLocal && category != domain.CurrencyFCRA {
			return domain.ErrInvalidCategory
		}

		var pan *string
		if req.Requires80G && category == domain.CurrencyLocal {
			candidate := strings.ToUpper(strings.TrimSpace(req.PAN))
			if candidate == "" && donor.PAN != nil {
				candidate = *donor.PAN
			}
			if !donordomain.ValidPAN(candidate) {
				return domain.ErrPANRequired
			}
			pan = &candidate
		} else if candidate := strings.ToUpper(strings.TrimSpace(req.PAN)); candidate != "" {
			pan = &candidate
		}

		paymentMode := strings.TrimSpace(req.PaymentMode)
		if paymentMode == "" {
			paymentMode = "bank_transfer"
		}

		now := s.clock.Now()
		donationDate := now
		if req.DonationDate != nil && !req.DonationDate.IsZero() {
			donationDate = req.DonationDate.UTC()
		}

		created = domain.Donation{
			ID:               s.genID.Generate(),
			DonorID:          donorID,
			Amount:           req.Amount,
			CurrencyCategory: category,
			PaymentMode:      paymentMode,
			Status:           status,
			Requires80G:      req.Requires80G,
			PAN:              pan,
			Reference:        ulid.Make().String(),
			DonationDate:     donationDate,
			Note:             strings.TrimSpace(req.Note),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.repo.Insert(ctx, tx, &created); err != nil {
			return err
		}

		if created.Status == domain.StatusCompleted {
			if _, err := s.donors.RecomputeTotal(ctx, tx, donorID.String()); err != nil {
				return err
			}
		}

		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionCreateDonation,
			EntityType: "donation",
			EntityID:   created.ID.String(),
			Meta: map[string]any{
				"donor_id":          donorID.String(),
				"amount":            created.Amount,
				"currency_category": string(created.CurrencyCategory),
				"status":            string(created.Status),
				"requires_80g":      created.Requires80G,
			},
		})
	})
	if err != nil {
		return domain.Donation{}, err
	}

	if created.Status == domain.StatusCompleted {
		s.metrics.IncDonationCompleted()
	}
	return created, nil
}

func (s *Service) TransitionStatus(ctx context.Context, id string, status domain.DonationStatus) (domain.Donation, error) {
	donationID, err := domain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return domain.Donation{}, err
	}
	if status != domain.StatusCompleted && status != domain.StatusVoid {
		return domain.Donation{}, domain.ErrInvalidStatus
	}

	var result domain.Donation
	var transitioned bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		donation, err := s.repo.FindByIDForUpdate(ctx, tx, donationID)
		if err != nil {
			return err
		}
		if donation == nil {
			return domain.ErrNotFound
		}

		// Idempotent re-completion: the status check, not a silent
		// double-count, guards against replayed requests.
		if donation.Status == domain.StatusCompleted && status == domain.StatusCompleted {
			result = *donation
			return nil
		}
		if !domain.CanTransition(donation.Status, status) {
			return domain.ErrInvalidTransition
		}

		before := donation.Status
		donation.Status = status
		donation.UpdatedAt = s.clock.Now()
		if err := s.repo.UpdateStatus(ctx, tx, donation); err != nil {
			return err
		}

		total, err := s.donors.RecomputeTotal(ctx, tx, donation.DonorID.String())
		if err != nil {
			return err
		}

		transitioned = true
		result = *donation
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionUpdateDonationStatus,
			EntityType: "donation",
			EntityID:   donation.ID.String(),
			Meta: map[string]any{
				"before":      string(before),
				"after":       string(status),
				"amount":      donation.Amount,
				"donor_id":    donation.DonorID.String(),
				"donor_total": total,
			},
		})
	})
	if err != nil {
		return domain.Donation{}, err
	}

	if transitioned && status == domain.StatusCompleted {
		s.metrics.IncDonationCompleted()
	}
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Donation, error) {
	donationID, err := domain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return domain.Donation{}, err
	}

	donation, err := s.repo.FindByID(ctx, s.db, donationID)
	if err != nil {
		return domain.Donation{}, err
	}
	if donation == nil {
		return domain.Donation{}, domain.ErrNotFound
	}
	return *donation, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDonationRequest) (domain.ListDonationResponse, error) {
	filter := domain.ListFilter{
		Status:           req.Status,
		CurrencyCategory: req.CurrencyCategory,
	}
	if trimmed := strings.TrimSpace(req.DonorID); trimmed != "" {
		donorID, err := domain.ParseID(trimmed)
		if err != nil {
			return domain.ListDonationResponse{}, err
		}
		filter.DonorID = donorID
	}

	page := req.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListDonationResponse{}, err
	}

	donations := make([]domain.Donation, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		donations = append(donations, *item)
	}

	return domain.ListDonationResponse{
		PageInfo:  pagination.BuildPageInfo(page, total),
		Donations: donations,
	}, nil
}

type donorRow struct {
	ID       snowflake.ID
	Category donordomain.DonorCategory
	PAN      *string
}

func (s *Service) loadDonor(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*donorRow, error) {
	var donor donorRow
	err := tx.WithContext(ctx).Raw(
		`SELECT id, category, pan FROM donors WHERE id = ?`,
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
