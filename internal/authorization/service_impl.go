package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject, roleName, err := s.resolveActor(ctx, actor)
	if err != nil {
		return err
	}
	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("subject", subject),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) resolveActor(ctx context.Context, actor string) (string, string, error) {
	if actor == "system" {
		return actor, "role:system", nil
	}
	if strings.HasPrefix(actor, "user:") {
		userIDRaw := strings.TrimPrefix(actor, "user:")
		userID, err := snowflake.ParseString(userIDRaw)
		if err != nil || userID == 0 {
			return "", "", ErrInvalidActor
		}
		role, err := s.roleForUser(ctx, userID)
		if err != nil {
			return "", "", err
		}
		return actor, fmt.Sprintf("role:%s", strings.ToLower(role)), nil
	}
	return "", "", ErrInvalidActor
}

func (s *ServiceImpl) roleForUser(ctx context.Context, userID snowflake.ID) (string, error) {
	var row struct {
		Role string `gorm:"column:role"`
	}
	if err := s.db.WithContext(ctx).Raw(
		`SELECT role FROM users WHERE id = ? LIMIT 1`,
		userID,
	).Scan(&row).Error; err != nil {
		return "", err
	}

	role := strings.TrimSpace(row.Role)
	if role == "" {
		return "", ErrForbidden
	}
	return role, nil
}

// ensureGrouping keeps the casbin grouping in sync with the users table so a
// role change takes effect on the next request.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	readObjects := []string{
		ObjectDonor,
		ObjectDonation,
		ObjectCertificate,
		ObjectApplicationWindow,
		ObjectContent,
	}

	policies := [][]string{}

	// Viewers see operational data but never the audit trail or settings.
	for _, object := range readObjects {
		policies = append(policies, []string{"role:viewer", object, ActionView})
	}

	// Staff run day-to-day intake and issuance.
	for _, object := range readObjects {
		policies = append(policies, []string{"role:staff", object, ActionView})
	}
	policies = append(policies,
		[]string{"role:staff", ObjectDonor, ActionCreate},
		[]string{"role:staff", ObjectDonor, ActionUpdate},
		[]string{"role:staff", ObjectDonation, ActionCreate},
		[]string{"role:staff", ObjectDonation, ActionDonationTransition},
		[]string{"role:staff", ObjectCertificate, ActionCertificateIssue},
		[]string{"role:staff", ObjectApplicationWindow, ActionCreate},
		[]string{"role:staff", ObjectApplicationWindow, ActionUpdate},
		[]string{"role:staff", ObjectContent, ActionCreate},
		[]string{"role:staff", ObjectContent, ActionUpdate},
		[]string{"role:staff", ObjectAuditLog, ActionView},
	)

	// Admins additionally void certificates, delete, and manage settings.
	for _, object := range readObjects {
		policies = append(policies, []string{"role:admin", object, ActionView})
	}
	policies = append(policies,
		[]string{"role:admin", ObjectDonor, ActionCreate},
		[]string{"role:admin", ObjectDonor, ActionUpdate},
		[]string{"role:admin", ObjectDonation, ActionCreate},
		[]string{"role:admin", ObjectDonation, ActionDonationTransition},
		[]string{"role:admin", ObjectCertificate, ActionCertificateIssue},
		[]string{"role:admin", ObjectCertificate, ActionCertificateVoid},
		[]string{"role:admin", ObjectApplicationWindow, ActionCreate},
		[]string{"role:admin", ObjectApplicationWindow, ActionUpdate},
		[]string{"role:admin", ObjectApplicationWindow, ActionDelete},
		[]string{"role:admin", ObjectContent, ActionCreate},
		[]string{"role:admin", ObjectContent, ActionUpdate},
		[]string{"role:admin", ObjectContent, ActionDelete},
		[]string{"role:admin", ObjectAuditLog, ActionView},
		[]string{"role:admin", ObjectSettings, ActionView},
		[]string{"role:admin", ObjectSettings, ActionUpdate},
	)

	// System covers seeding and internal jobs.
	for _, object := range []string{
		ObjectDonor, ObjectDonation, ObjectCertificate,
		ObjectApplicationWindow, ObjectAuditLog, ObjectSettings, ObjectContent,
	} {
		for _, action := range []string{ActionView, ActionCreate, ActionUpdate, ActionDelete} {
			policies = append(policies, []string{"role:system", object, action})
		}
	}
	policies = append(policies,
		[]string{"role:system", ObjectDonation, ActionDonationTransition},
		[]string{"role:system", ObjectCertificate, ActionCertificateIssue},
		[]string{"role:system", ObjectCertificate, ActionCertificateVoid},
	)

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
