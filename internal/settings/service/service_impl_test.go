package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	auditrepository "github.com/sevasetu/sevasetu/internal/audit/repository"
	auditservice "github.com/sevasetu/sevasetu/internal/audit/service"
	"github.com/sevasetu/sevasetu/internal/clock"
	"github.com/sevasetu/sevasetu/internal/settings/domain"
	"github.com/sevasetu/sevasetu/internal/settings/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*gorm.DB, domain.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.OrgProfile{}, &auditdomain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	logger := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))

	audit := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Clock: fake,
		Repo:  auditrepository.Provide(),
	})

	svc := New(Params{
		DB:    db,
		Log:   logger,
		Clock: fake,
		Repo:  repository.Provide(),
		Audit: audit,
	})

	return db, svc
}

func seedProfile(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&domain.OrgProfile{
		ID:        domain.ProfileRowID,
		Name:      "SevaSetu Foundation",
		City:      "Pune",
		UpdatedAt: time.Now().UTC(),
	}).Error)
}

func TestGet_MissingProfile(t *testing.T) {
	_, svc := newTestService(t)

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrProfileMissing)
}

func TestUpdate_PartialPatch(t *testing.T) {
	db, svc := newTestService(t)
	seedProfile(t, db)

	reg := " AAATS1234FF20214 "
	baseURL := "https://sevasetu.org/"
	updated, err := svc.Update(context.Background(), domain.UpdateProfileRequest{
		Reg80GNumber:  &reg,
		PublicBaseURL: &baseURL,
	})
	require.NoError(t, err)

	// Untouched fields survive the patch.
	assert.Equal(t, "SevaSetu Foundation", updated.Name)
	assert.Equal(t, "Pune", updated.City)
	assert.Equal(t, "AAATS1234FF20214", updated.Reg80GNumber)
	assert.Equal(t, "https://sevasetu.org", updated.PublicBaseURL)

	var count int64
	require.NoError(t, db.Model(&auditdomain.AuditLog{}).
		Where("action = ?", auditdomain.ActionUpdateSettings).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdate_RejectsEmptyName(t *testing.T) {
	db, svc := newTestService(t)
	seedProfile(t, db)

	empty := "   "
	_, err := svc.Update(context.Background(), domain.UpdateProfileRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SevaSetu Foundation", got.Name)
}
