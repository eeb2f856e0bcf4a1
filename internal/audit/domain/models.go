package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Audit actions form a fixed vocabulary; new actions are appended, never renamed,
// because the trail is the compliance record of record.
const (
	ActionLogin = "LOGIN"

	ActionCreateDonor = "CREATE_DONOR"
	ActionUpdateDonor = "UPDATE_DONOR"

	ActionCreateDonation       = "CREATE_DONATION"
	ActionUpdateDonationStatus = "UPDATE_DONATION_STATUS"

	ActionGenerateCertificate = "GENERATE_CERTIFICATE"
	ActionVoidCertificate     = "VOID_CERTIFICATE"

	ActionCreateApplicationWindow = "CREATE_APPLICATION_WINDOW"
	ActionUpdateApplicationWindow = "UPDATE_APPLICATION_WINDOW"
	ActionDeleteApplicationWindow = "DELETE_APPLICATION_WINDOW"

	ActionUpdateSettings = "UPDATE_SETTINGS"

	ActionCreateContent = "CREATE_CONTENT"
	ActionUpdateContent = "UPDATE_CONTENT"
	ActionDeleteContent = "DELETE_CONTENT"
)

// AuditLog is an append-only record of a compliance-relevant mutation.
// Rows are never updated or deleted after insertion.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	ActorType  string            `gorm:"type:text;not null" json:"actor_type"`
	ActorID    *string           `gorm:"index" json:"actor_id,omitempty"`
	Action     string            `gorm:"type:text;not null;index" json:"action"`
	EntityType string            `gorm:"type:text;not null;index" json:"entity_type"`
	EntityID   *string           `gorm:"index" json:"entity_id,omitempty"`
	Meta       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"meta,omitempty"`
	IPAddress  *string           `json:"ip_address,omitempty"`
	UserAgent  *string           `json:"user_agent,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;index" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }
