package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	"github.com/sevasetu/sevasetu/internal/clock"
	"github.com/sevasetu/sevasetu/internal/content/domain"
	"github.com/sevasetu/sevasetu/pkg/db"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:   p.Log.Named("content.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		audit: p.Audit,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateContentRequest) (domain.ContentRecord, error) {
	collection := strings.TrimSpace(strings.ToLower(req.Collection))
	if collection == "" {
		return domain.ContentRecord{}, domain.ErrInvalidCollection
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.ContentRecord{}, domain.ErrInvalidTitle
	}

	// Explicit slugs are normalized too, so lookups stay case-insensitive.
	source := req.Slug
	if strings.TrimSpace(source) == "" {
		source = title
	}
	recordSlug := slug.Make(source)

	body := req.Body
	if body == nil {
		body = map[string]any{}
	}

	now := s.clock.Now()
	record := domain.ContentRecord{
		ID:           s.genID.Generate(),
		Collection:   collection,
		Slug:         recordSlug,
		Title:        title,
		Body:         datatypes.JSONMap(body),
		Published:    req.Published,
		DisplayOrder: req.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &record); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrSlugTaken
			}
			return err
		}
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionCreateContent,
			EntityType: "content_record",
			EntityID:   record.ID.String(),
			Meta: map[string]any{
				"collection": collection,
				"slug":       recordSlug,
				"published":  record.Published,
			},
		})
	})
	if err != nil {
		return domain.ContentRecord{}, err
	}
	return record, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateContentRequest) (domain.ContentRecord, error) {
	recordID, err := parseID(id)
	if err != nil {
		return domain.ContentRecord{}, err
	}

	var updated domain.ContentRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.repo.FindByID(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}

		wasPublished := record.Published

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return domain.ErrInvalidTitle
			}
			record.Title = title
		}
		if req.Body != nil {
			record.Body = datatypes.JSONMap(req.Body)
		}
		if req.Published != nil {
			record.Published = *req.Published
		}
		if req.DisplayOrder != nil {
			record.DisplayOrder = *req.DisplayOrder
		}
		record.UpdatedAt = s.clock.Now()

		if err := s.repo.Update(ctx, tx, record); err != nil {
			return err
		}

		updated = *record
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionUpdateContent,
			EntityType: "content_record",
			EntityID:   record.ID.String(),
			Meta: map[string]any{
				"collection":    record.Collection,
				"slug":          record.Slug,
				"was_published": wasPublished,
				"published":     record.Published,
			},
		})
	})
	if err != nil {
		return domain.ContentRecord{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	recordID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.repo.FindByID(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}

		if err := s.repo.Delete(ctx, tx, recordID); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionDeleteContent,
			EntityType: "content_record",
			EntityID:   recordID.String(),
			Meta: map[string]any{
				"collection": record.Collection,
				"slug":       record.Slug,
			},
		})
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.ContentRecord, error) {
	recordID, err := parseID(id)
	if err != nil {
		return domain.ContentRecord{}, err
	}

	record, err := s.repo.FindByID(ctx, s.db, recordID)
	if err != nil {
		return domain.ContentRecord{}, err
	}
	if record == nil {
		return domain.ContentRecord{}, domain.ErrNotFound
	}
	return *record, nil
}

func (s *Service) ListPublished(ctx context.Context, collection string) ([]domain.ContentRecord, error) {
	collection = strings.TrimSpace(strings.ToLower(collection))
	if collection == "" {
		return nil, domain.ErrInvalidCollection
	}

	items, err := s.repo.ListPublished(ctx, s.db, collection)
	if err != nil {
		return nil, err
	}

	records := make([]domain.ContentRecord, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		records = append(records, *item)
	}
	return records, nil
}

func (s *Service) List(ctx context.Context, req domain.ListContentRequest) (domain.ListContentResponse, error) {
	page := req.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Collection:    strings.TrimSpace(strings.ToLower(req.Collection)),
		PublishedOnly: req.PublishedOnly,
	}, page)
	if err != nil {
		return domain.ListContentResponse{}, err
	}

	records := make([]domain.ContentRecord, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		records = append(records, *item)
	}

	return domain.ListContentResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Records:  records,
	}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
