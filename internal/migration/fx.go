package migration

import (
	appwindowdomain "github.com/sevasetu/sevasetu/internal/appwindow/domain"
	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	authdomain "github.com/sevasetu/sevasetu/internal/auth/domain"
	certdomain "github.com/sevasetu/sevasetu/internal/certificate/domain"
	"github.com/sevasetu/sevasetu/internal/config"
	contentdomain "github.com/sevasetu/sevasetu/internal/content/domain"
	donationdomain "github.com/sevasetu/sevasetu/internal/donation/domain"
	donordomain "github.com/sevasetu/sevasetu/internal/donor/domain"
	"github.com/sevasetu/sevasetu/internal/seed"
	settingsdomain "github.com/sevasetu/sevasetu/internal/settings/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite deployments rely on gorm's schema sync; the
			// versioned SQL is written for postgres.
			if err := conn.AutoMigrate(
				&donordomain.Donor{},
				&donationdomain.Donation{},
				&certdomain.Certificate{},
				&certdomain.CertificateCounter{},
				&appwindowdomain.ApplicationWindow{},
				&auditdomain.AuditLog{},
				&authdomain.User{},
				&authdomain.Session{},
				&settingsdomain.OrgProfile{},
				&contentdomain.ContentRecord{},
			); err != nil {
				return err
			}
		}

		return seed.Ensure(conn, cfg)
	}),
)
