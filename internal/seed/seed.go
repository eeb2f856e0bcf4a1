// Package seed bootstraps the rows the system expects to exist: the org
// profile, the certificate counter, and an admin account.
package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/sevasetu/sevasetu/internal/auth/domain"
	"github.com/sevasetu/sevasetu/internal/auth/password"
	certdomain "github.com/sevasetu/sevasetu/internal/certificate/domain"
	"github.com/sevasetu/sevasetu/internal/config"
	settingsdomain "github.com/sevasetu/sevasetu/internal/settings/domain"
	"gorm.io/gorm"
)

const (
	defaultOrgName      = "SevaSetu Foundation"
	defaultAdminDisplay = "SevaSetu Admin"
)

// Ensure seeds all bootstrap rows. Every step is idempotent; rerunning on
// startup is expected.
func Ensure(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureOrgProfile(ctx, tx); err != nil {
			return err
		}
		if err := ensureCertificateCounter(ctx, tx); err != nil {
			return err
		}
		return ensureAdmin(ctx, tx, node, cfg)
	})
}

func ensureOrgProfile(ctx context.Context, tx *gorm.DB) error {
	var profile settingsdomain.OrgProfile
	err := tx.WithContext(ctx).
		Where("id = ?", settingsdomain.ProfileRowID).
		First(&profile).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	profile = settingsdomain.OrgProfile{
		ID:   settingsdomain.ProfileRowID,
		Name: defaultOrgName,
	}
	return tx.WithContext(ctx).Create(&profile).Error
}

func ensureCertificateCounter(ctx context.Context, tx *gorm.DB) error {
	var counter certdomain.CertificateCounter
	err := tx.WithContext(ctx).Where("id = 1").First(&counter).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	counter = certdomain.CertificateCounter{ID: 1, Value: 0}
	return tx.WithContext(ctx).Create(&counter).Error
}

func ensureAdmin(ctx context.Context, tx *gorm.DB, node *snowflake.Node, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.BootstrapAdminEmail))
	if email == "" {
		return nil
	}

	var user authdomain.User
	err := tx.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := password.Hash(cfg.BootstrapAdminPassword)
	if err != nil {
		return err
	}
	user = authdomain.User{
		ID:           node.Generate(),
		Email:        email,
		DisplayName:  defaultAdminDisplay,
		Role:         authdomain.RoleAdmin,
		PasswordHash: &hashed,
		IsDefault:    true,
	}
	return tx.WithContext(ctx).Create(&user).Error
}
