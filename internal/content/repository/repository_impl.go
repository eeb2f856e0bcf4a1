package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/internal/content/domain"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, record *domain.ContentRecord) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO content_records (
			id, collection, slug, title, body, published, display_order,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Collection,
		record.Slug,
		record.Title,
		record.Body,
		record.Published,
		record.DisplayOrder,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.ContentRecord, error) {
	var record domain.ContentRecord
	err := conn.WithContext(ctx).Raw(
		`SELECT * FROM content_records WHERE id = ?`,
		id,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, record *domain.ContentRecord) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE content_records SET
			title = ?, body = ?, published = ?, display_order = ?, updated_at = ?
		 WHERE id = ?`,
		record.Title,
		record.Body,
		record.Published,
		record.DisplayOrder,
		record.UpdatedAt,
		record.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	return conn.WithContext(ctx).Exec(
		`DELETE FROM content_records WHERE id = ?`,
		id,
	).Error
}

func (r *repo) ListPublished(ctx context.Context, conn *gorm.DB, collection string) ([]*domain.ContentRecord, error) {
	var records []*domain.ContentRecord
	err := conn.WithContext(ctx).Raw(
		`SELECT * FROM content_records
		 WHERE collection = ? AND published = ?
		 ORDER BY display_order asc, created_at desc`,
		collection, true,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.ContentRecord, int64, error) {
	where := `WHERE 1=1`
	args := []any{}
	if filter.Collection != "" {
		where += ` AND collection = ?`
		args = append(args, filter.Collection)
	}
	if filter.PublishedOnly {
		where += ` AND published = ?`
		args = append(args, true)
	}

	var total int64
	err := conn.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM content_records `+where,
		args...,
	).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var records []*domain.ContentRecord
	err = conn.WithContext(ctx).Raw(
		`SELECT * FROM content_records `+where+
			` ORDER BY collection asc, display_order asc, id desc LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset())...,
	).Scan(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
