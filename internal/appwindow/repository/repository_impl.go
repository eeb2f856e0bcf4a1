package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/internal/appwindow/domain"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, window *domain.ApplicationWindow) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO application_windows (
			id, donor_id, program_name, category, submission_method,
			open_date, close_date, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		window.ID,
		window.DonorID,
		window.ProgramName,
		window.Category,
		window.SubmissionMethod,
		window.OpenDate,
		window.CloseDate,
		window.Status,
		window.CreatedAt,
		window.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.ApplicationWindow, error) {
	var window domain.ApplicationWindow
	err := conn.WithContext(ctx).Raw(
		`SELECT * FROM application_windows WHERE id = ?`,
		id,
	).Scan(&window).Error
	if err != nil {
		return nil, err
	}
	if window.ID == 0 {
		return nil, nil
	}
	return &window, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, window *domain.ApplicationWindow) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE application_windows SET
			program_name = ?, category = ?, submission_method = ?,
			open_date = ?, close_date = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		window.ProgramName,
		window.Category,
		window.SubmissionMethod,
		window.OpenDate,
		window.CloseDate,
		window.Status,
		window.UpdatedAt,
		window.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	return conn.WithContext(ctx).Exec(
		`DELETE FROM application_windows WHERE id = ?`,
		id,
	).Error
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.ApplicationWindow, int64, error) {
	stmt := conn.WithContext(ctx).Model(&domain.ApplicationWindow{})

	if filter.DonorID != 0 {
		stmt = stmt.Where("donor_id = ?", filter.DonorID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var windows []*domain.ApplicationWindow
	err := stmt.
		Order("close_date asc, id desc").
		Offset(page.Offset()).
		Limit(page.Normalize().Limit).
		Find(&windows).Error
	if err != nil {
		return nil, 0, err
	}
	return windows, total, nil
}
