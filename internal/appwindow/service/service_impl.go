package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/internal/appwindow/domain"
	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	"github.com/sevasetu/sevasetu/internal/clock"
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
		log:   p.Log.Named("appwindow.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		audit: p.Audit,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateWindowRequest) (domain.ApplicationWindow, error) {
	donorID, err := parseID(req.DonorID)
	if err != nil {
		return domain.ApplicationWindow{}, domain.ErrInvalidDonor
	}
	programName := strings.TrimSpace(req.ProgramName)
	if programName == "" {
		return domain.ApplicationWindow{}, domain.ErrInvalidProgram
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return domain.ApplicationWindow{}, domain.ErrInvalidCategory
	}
	if req.OpenDate.IsZero() || req.CloseDate.IsZero() || !req.CloseDate.After(req.OpenDate) {
		return domain.ApplicationWindow{}, domain.ErrInvalidDateRange
	}

	now := s.clock.Now()
	window := domain.ApplicationWindow{
		ID:               s.genID.Generate(),
		DonorID:          donorID,
		ProgramName:      programName,
		Category:         category,
		SubmissionMethod: strings.TrimSpace(req.SubmissionMethod),
		OpenDate:         req.OpenDate.UTC(),
		CloseDate:        req.CloseDate.UTC(),
		Status:           domain.StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists snowflake.ID
		if err := tx.WithContext(ctx).Raw(`SELECT id FROM donors WHERE id = ?`, donorID).Scan(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return domain.ErrInvalidDonor
		}

		if err := s.repo.Insert(ctx, tx, &window); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionCreateApplicationWindow,
			EntityType: "application_window",
			EntityID:   window.ID.String(),
			Meta: map[string]any{
				"donor_id":     donorID.String(),
				"program_name": programName,
				"category":     category,
			},
		})
	})
	if err != nil {
		return domain.ApplicationWindow{}, err
	}
	return window, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateWindowRequest) (domain.ApplicationWindow, error) {
	windowID, err := parseID(id)
	if err != nil {
		return domain.ApplicationWindow{}, err
	}

	var updated domain.ApplicationWindow
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		window, err := s.repo.FindByID(ctx, tx, windowID)
		if err != nil {
			return err
		}
		if window == nil {
			return domain.ErrNotFound
		}

		before := map[string]any{
			"status":     string(window.Status),
			"close_date": window.CloseDate,
		}

		if req.ProgramName != nil {
			name := strings.TrimSpace(*req.ProgramName)
			if name == "" {
				return domain.ErrInvalidProgram
			}
			window.ProgramName = name
		}
		if req.Category != nil {
			category := strings.TrimSpace(*req.Category)
			if category == "" {
				return domain.ErrInvalidCategory
			}
			window.Category = category
		}
		if req.SubmissionMethod != nil {
			window.SubmissionMethod = strings.TrimSpace(*req.SubmissionMethod)
		}
		if req.OpenDate != nil {
			window.OpenDate = req.OpenDate.UTC()
		}
		if req.CloseDate != nil {
			window.CloseDate = req.CloseDate.UTC()
		}
		// The range invariant holds on every edit, not just creation.
		if !window.CloseDate.After(window.OpenDate) {
			return domain.ErrInvalidDateRange
		}

		if req.Status != nil && *req.Status != window.Status {
			if !domain.CanTransition(window.Status, *req.Status) {
				return domain.ErrInvalidTransition
			}
			window.Status = *req.Status
		}

		window.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, tx, window); err != nil {
			return err
		}

		updated = *window
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionUpdateApplicationWindow,
			EntityType: "application_window",
			EntityID:   window.ID.String(),
			Meta: map[string]any{
				"before": before,
				"after": map[string]any{
					"status":     string(window.Status),
					"close_date": window.CloseDate,
				},
			},
		})
	})
	if err != nil {
		return domain.ApplicationWindow{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	windowID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		window, err := s.repo.FindByID(ctx, tx, windowID)
		if err != nil {
			return err
		}
		if window == nil {
			return domain.ErrNotFound
		}
		if window.Status != domain.StatusDraft {
			return domain.ErrDeleteNotAllowed
		}

		if err := s.repo.Delete(ctx, tx, windowID); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionDeleteApplicationWindow,
			EntityType: "application_window",
			EntityID:   windowID.String(),
			Meta: map[string]any{
				"program_name": window.ProgramName,
			},
		})
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.ApplicationWindow, error) {
	windowID, err := parseID(id)
	if err != nil {
		return domain.ApplicationWindow{}, err
	}

	window, err := s.repo.FindByID(ctx, s.db, windowID)
	if err != nil {
		return domain.ApplicationWindow{}, err
	}
	if window == nil {
		return domain.ApplicationWindow{}, domain.ErrNotFound
	}
	return *window, nil
}

func (s *Service) List(ctx context.Context, req domain.ListWindowRequest) (domain.ListWindowResponse, error) {
	filter := domain.ListFilter{Status: req.Status}
	if trimmed := strings.TrimSpace(req.DonorID); trimmed != "" {
		donorID, err := parseID(trimmed)
		if err != nil {
			return domain.ListWindowResponse{}, err
		}
		filter.DonorID = donorID
	}

	page := req.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListWindowResponse{}, err
	}

	windows := make([]domain.ApplicationWindow, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		windows = append(windows, *item)
	}

	return domain.ListWindowResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Windows:  windows,
	}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
