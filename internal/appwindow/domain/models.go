package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// WindowStatus tracks a grant opportunity through its submission pipeline.
// Transitions only move forward; closed is terminal and doubles as
// withdrawal/rejection from any earlier state.
type WindowStatus string

const (
	StatusDraft       WindowStatus = "draft"
	StatusReady       WindowStatus = "ready"
	StatusSubmitted   WindowStatus = "submitted"
	StatusShortlisted WindowStatus = "shortlisted"
	StatusClosed      WindowStatus = "closed"
)

// ApplicationWindow is a time-boxed funding opportunity tracked per donor,
// typically a corporate CSR or international NGO funding cycle. It has no
// effect on donation totals.
type ApplicationWindow struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	DonorID          snowflake.ID `gorm:"not null;index" json:"donor_id"`
	ProgramName      string       `gorm:"not null" json:"program_name"`
	Category         string       `gorm:"type:text;not null" json:"category"`
	SubmissionMethod string       `gorm:"type:text" json:"submission_method,omitempty"`
	OpenDate         time.Time    `gorm:"not null" json:"open_date"`
	CloseDate        time.Time    `gorm:"not null" json:"close_date"`
	Status           WindowStatus `gorm:"type:text;not null;index" json:"status"`
	CreatedAt        time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (ApplicationWindow) TableName() string { return "application_windows" }

// CanTransition reports whether the pipeline allows from -> to.
func CanTransition(from, to WindowStatus) bool {
	if from == StatusClosed || from == to {
		return false
	}
	if to == StatusClosed {
		return true
	}
	switch from {
	case StatusDraft:
		return to == StatusReady
	case StatusReady:
		return to == StatusSubmitted
	case StatusSubmitted:
		return to == StatusShortlisted
	default:
		return false
	}
}
