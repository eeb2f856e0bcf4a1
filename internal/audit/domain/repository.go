package domain

import (
	"context"
	"time"

	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Action     string
	EntityType string
	Search     string
	StartAt    *time.Time
	EndAt      *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*AuditLog, int64, error)
}
