package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	"github.com/sevasetu/sevasetu/internal/certificate/domain"
	"github.com/sevasetu/sevasetu/internal/clock"
	donationdomain "github.com/sevasetu/sevasetu/internal/donation/domain"
	donordomain "github.com/sevasetu/sevasetu/internal/donor/domain"
	"github.com/sevasetu/sevasetu/internal/observability/metrics"
	"github.com/sevasetu/sevasetu/pkg/db"
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
	Audit   auditdomain.Recorder
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	audit   auditdomain.Recorder
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("certificate.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		audit:   p.Audit,
		metrics: p.Metrics,
	}
}

func (s *Service) Issue(ctx context.Context, donationID string) (domain.Certificate, error) {
	id, err := parseID(donationID)
	if err != nil {
		return domain.Certificate{}, err
	}

	var issued domain.Certificate
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		donation, err := s.loadDonationForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if donation == nil {
			return domain.ErrNotFound
		}

		// Eligibility is re-checked on every issuance, including re-issues
		// after a void.
		if donation.Status != string(donationdomain.StatusCompleted) {
			return domain.ErrDonationNotEligible
		}
		if !donation.Requires80G {
			return domain.ErrDonationNotEligible
		}
		if donation.PAN == nil || !donordomain.ValidPAN(*donation.PAN) {
			return domain.ErrDonationNotEligible
		}

		existing, err := s.repo.FindActiveByDonation(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrCertificateAlreadyActive
		}

		number, err := s.repo.NextNumber(ctx, tx)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		issued = domain.Certificate{
			ID:                s.genID.Generate(),
			DonationID:        id,
			CertificateNumber: number,
			Status:            domain.StatusActive,
			IssuedAt:          now,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.repo.Insert(ctx, tx, &issued); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrCertificateAlreadyActive
			}
			return err
		}

		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionGenerateCertificate,
			EntityType: "certificate",
			EntityID:   issued.ID.String(),
			Meta: map[string]any{
				"donation_id":        id.String(),
				"certificate_number": number,
			},
		})
	})
	if err != nil {
		return domain.Certificate{}, err
	}

	s.metrics.IncCertificateIssued()
	return issued, nil
}

func (s *Service) Void(ctx context.Context, id string, reason string) (domain.Certificate, error) {
	certID, err := parseID(id)
	if err != nil {
		return domain.Certificate{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Certificate{}, domain.ErrVoidReasonRequired
	}

	var voided domain.Certificate
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cert, err := s.repo.FindByIDForUpdate(ctx, tx, certID)
		if err != nil {
			return err
		}
		if cert == nil {
			return domain.ErrNotFound
		}
		if cert.Status == domain.StatusVoid {
			return domain.ErrCertificateAlreadyVoid
		}

		now := s.clock.Now()
		cert.Status = domain.StatusVoid
		cert.VoidReason = &reason
		cert.VoidedAt = &now
		cert.UpdatedAt = now
		if err := s.repo.UpdateStatus(ctx, tx, cert); err != nil {
			return err
		}

		voided = *cert
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionVoidCertificate,
			EntityType: "certificate",
			EntityID:   cert.ID.String(),
			Meta: map[string]any{
				"donation_id":        cert.DonationID.String(),
				"certificate_number": cert.CertificateNumber,
				"reason":             reason,
			},
		})
	})
	if err != nil {
		return domain.Certificate{}, err
	}

	s.metrics.IncCertificateVoided()
	return voided, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Certificate, error) {
	certID, err := parseID(id)
	if err != nil {
		return domain.Certificate{}, err
	}

	cert, err := s.repo.FindByID(ctx, s.db, certID)
	if err != nil {
		return domain.Certificate{}, err
	}
	if cert == nil {
		return domain.Certificate{}, domain.ErrNotFound
	}
	return *cert, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCertificateRequest) (domain.ListCertificateResponse, error) {
	filter := domain.ListFilter{Status: req.Status}
	if trimmed := strings.TrimSpace(req.DonationID); trimmed != "" {
		donationID, err := parseID(trimmed)
		if err != nil {
			return domain.ListCertificateResponse{}, err
		}
		filter.DonationID = donationID
	}

	page := req.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListCertificateResponse{}, err
	}

	certs := make([]domain.Certificate, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		certs = append(certs, *item)
	}

	return domain.ListCertificateResponse{
		PageInfo:     pagination.BuildPageInfo(page, total),
		Certificates: certs,
	}, nil
}

type donationRow struct {
	ID          snowflake.ID
	DonorID     snowflake.ID
	Status      string
	Requires80G bool `gorm:"column:requires_80g"`
	PAN         *string
	Amount      int64
}

func (s *Service) loadDonationForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*donationRow, error) {
	var donation donationRow
	err := tx.WithContext(ctx).Raw(
		`SELECT id, donor_id, status, requires_80g, pan, amount
		 FROM donations
		 WHERE id = ?`+db.LockClause(tx),
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

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
