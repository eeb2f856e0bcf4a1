package domain

import (
	"context"
	"errors"
	"time"

	"github.com/sevasetu/sevasetu/pkg/db/pagination"
	"gorm.io/gorm"
)

// Entry is the caller-facing shape of an audit write.
type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	Meta       map[string]any
}

type ListAuditLogRequest struct {
	pagination.Pagination
	Action     string
	EntityType string
	Search     string
	StartAt    *time.Time
	EndAt      *time.Time
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

// Recorder writes one audit entry inside the caller's transaction. Passing the
// mutation's tx handle is what makes the audit write and the primary mutation
// commit or roll back together.
type Recorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry Entry) error
}

type Service interface {
	Recorder
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidAction    = errors.New("invalid_action")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
)
