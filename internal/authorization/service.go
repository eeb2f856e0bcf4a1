// Package authorization enforces role-based access for staff endpoints.
package authorization

import (
	"context"
	"errors"
)

const (
	ObjectDonor             = "donor"
	ObjectDonation          = "donation"
	ObjectCertificate       = "certificate"
	ObjectApplicationWindow = "application_window"
	ObjectAuditLog          = "audit_log"
	ObjectSettings          = "settings"
	ObjectContent           = "content"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ActionDonationTransition = "donation.transition"
	ActionCertificateIssue   = "certificate.issue"
	ActionCertificateVoid    = "certificate.void"
)

type Service interface {
	// Authorize checks whether the actor may perform action on object.
	// Actor is "system" or "user:<id>".
	Authorize(ctx context.Context, actor string, object string, action string) error
}

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)
