package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sevasetu/sevasetu/internal/appwindow"
	appwindowdomain "github.com/sevasetu/sevasetu/internal/appwindow/domain"
	"github.com/sevasetu/sevasetu/internal/audit"
	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	"github.com/sevasetu/sevasetu/internal/auth"
	authdomain "github.com/sevasetu/sevasetu/internal/auth/domain"
	"github.com/sevasetu/sevasetu/internal/auth/session"
	"github.com/sevasetu/sevasetu/internal/authorization"
	"github.com/sevasetu/sevasetu/internal/certificate"
	certdomain "github.com/sevasetu/sevasetu/internal/certificate/domain"
	"github.com/sevasetu/sevasetu/internal/config"
	"github.com/sevasetu/sevasetu/internal/content"
	contentdomain "github.com/sevasetu/sevasetu/internal/content/domain"
	"github.com/sevasetu/sevasetu/internal/donation"
	donationdomain "github.com/sevasetu/sevasetu/internal/donation/domain"
	"github.com/sevasetu/sevasetu/internal/donor"
	donordomain "github.com/sevasetu/sevasetu/internal/donor/domain"
	"github.com/sevasetu/sevasetu/internal/observability"
	obslogger "github.com/sevasetu/sevasetu/internal/observability/logger"
	obsmetrics "github.com/sevasetu/sevasetu/internal/observability/metrics"
	"github.com/sevasetu/sevasetu/internal/providers/pdf"
	"github.com/sevasetu/sevasetu/internal/ratelimit"
	"github.com/sevasetu/sevasetu/internal/settings"
	settingsdomain "github.com/sevasetu/sevasetu/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	observability.Module,
	fx.Provide(registerGin),
	authorization.Module,
	audit.Module,
	auth.Module,
	donor.Module,
	donation.Module,
	certificate.Module,
	appwindow.Module,
	settings.Module,
	content.Module,
	pdf.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log, obslogger.MiddlewareConfig{
		Debug: !cfg.IsProduction(),
	}))
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(cfg, log, metrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	genID          *snowflake.Node
	authSvc        authdomain.Service
	sessions       *session.Manager
	authzSvc       authorization.Service
	auditSvc       auditdomain.Service
	donorSvc       donordomain.Service
	donationSvc    donationdomain.Service
	certificateSvc certdomain.Service
	appwindowSvc   appwindowdomain.Service
	settingsSvc    settingsdomain.Service
	contentSvc     contentdomain.Service
	pdfProvider    pdf.Provider
	intakeLimiter  *ratelimit.DonationIntakeLimiter
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	GenID          *snowflake.Node
	AuthSvc        authdomain.Service
	Sessions       *session.Manager
	AuthzSvc       authorization.Service
	AuditSvc       auditdomain.Service
	DonorSvc       donordomain.Service
	DonationSvc    donationdomain.Service
	CertificateSvc certdomain.Service
	AppwindowSvc   appwindowdomain.Service
	SettingsSvc    settingsdomain.Service
	ContentSvc     contentdomain.Service
	PDFProvider    pdf.Provider
	IntakeLimiter  *ratelimit.DonationIntakeLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		genID:          p.GenID,
		authSvc:        p.AuthSvc,
		sessions:       p.Sessions,
		authzSvc:       p.AuthzSvc,
		auditSvc:       p.AuditSvc,
		donorSvc:       p.DonorSvc,
		donationSvc:    p.DonationSvc,
		certificateSvc: p.CertificateSvc,
		appwindowSvc:   p.AppwindowSvc,
		settingsSvc:    p.SettingsSvc,
		contentSvc:     p.ContentSvc,
		pdfProvider:    p.PDFProvider,
		intakeLimiter:  p.IntakeLimiter,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.POST("/change-password", s.AuthRequired(), s.ChangePassword)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	// -------- Donors --------
	api.GET("/donors", s.RequirePermission(authorization.ObjectDonor, authorization.ActionView), s.ListDonors)
	api.POST("/donors", s.RequirePermission(authorization.ObjectDonor, authorization.ActionCreate), s.CreateDonor)
	api.GET("/donors/:id", s.RequirePermission(authorization.ObjectDonor, authorization.ActionView), s.GetDonorByID)
	api.PATCH("/donors/:id", s.RequirePermission(authorization.ObjectDonor, authorization.ActionUpdate), s.UpdateDonor)

	// -------- Donations --------
	api.GET("/donations", s.RequirePermission(authorization.ObjectDonation, authorization.ActionView), s.ListDonations)
	api.POST("/donations", s.RequirePermission(authorization.ObjectDonation, authorization.ActionCreate), s.CreateDonation)
	api.GET("/donations/:id", s.RequirePermission(authorization.ObjectDonation, authorization.ActionView), s.GetDonationByID)
	api.PATCH("/donations/:id/status", s.RequirePermission(authorization.ObjectDonation, authorization.ActionDonationTransition), s.TransitionDonationStatus)

	// -------- Certificates --------
	api.GET("/certificates", s.RequirePermission(authorization.ObjectCertificate, authorization.ActionView), s.ListCertificates)
	api.POST("/certificates", s.RequirePermission(authorization.ObjectCertificate, authorization.ActionCertificateIssue), s.IssueCertificate)
	api.GET("/certificates/:id", s.RequirePermission(authorization.ObjectCertificate, authorization.ActionView), s.GetCertificateByID)
	api.POST("/certificates/:id/void", s.RequirePermission(authorization.ObjectCertificate, authorization.ActionCertificateVoid), s.VoidCertificate)
	api.GET("/certificates/:id/pdf", s.RequirePermission(authorization.ObjectCertificate, authorization.ActionView), s.GetCertificatePDF)

	// -------- Application windows --------
	api.GET("/application-windows", s.RequirePermission(authorization.ObjectApplicationWindow, authorization.ActionView), s.ListApplicationWindows)
	api.POST("/application-windows", s.RequirePermission(authorization.ObjectApplicationWindow, authorization.ActionCreate), s.CreateApplicationWindow)
	api.GET("/application-windows/:id", s.RequirePermission(authorization.ObjectApplicationWindow, authorization.ActionView), s.GetApplicationWindowByID)
	api.PATCH("/application-windows/:id", s.RequirePermission(authorization.ObjectApplicationWindow, authorization.ActionUpdate), s.UpdateApplicationWindow)
	api.DELETE("/application-windows/:id", s.RequirePermission(authorization.ObjectApplicationWindow, authorization.ActionDelete), s.DeleteApplicationWindow)

	// -------- Audit trail --------
	api.GET("/audit-logs", s.RequirePermission(authorization.ObjectAuditLog, authorization.ActionView), s.ListAuditLogs)

	// -------- Settings --------
	api.GET("/settings", s.RequirePermission(authorization.ObjectSettings, authorization.ActionView), s.GetSettings)
	api.PATCH("/settings", s.RequirePermission(authorization.ObjectSettings, authorization.ActionUpdate), s.UpdateSettings)

	// -------- Content --------
	api.GET("/content", s.RequirePermission(authorization.ObjectContent, authorization.ActionView), s.ListContent)
	api.POST("/content", s.RequirePermission(authorization.ObjectContent, authorization.ActionCreate), s.CreateContent)
	api.GET("/content/:id", s.RequirePermission(authorization.ObjectContent, authorization.ActionView), s.GetContentByID)
	api.PATCH("/content/:id", s.RequirePermission(authorization.ObjectContent, authorization.ActionUpdate), s.UpdateContent)
	api.DELETE("/content/:id", s.RequirePermission(authorization.ObjectContent, authorization.ActionDelete), s.DeleteContent)
}

func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/public")

	public.POST("/donations", s.DonationIntakeRateLimit(), s.PublicCreateDonation)
	public.GET("/content/:collection", s.PublicListContent)
}
