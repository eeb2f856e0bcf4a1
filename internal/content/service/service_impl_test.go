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
	"github.com/sevasetu/sevasetu/internal/content/domain"
	"github.com/sevasetu/sevasetu/internal/content/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*gorm.DB, domain.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ContentRecord{}, &auditdomain.AuditLog{}))

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
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
		Audit: audit,
	})

	return db, svc
}

func TestCreateContent_SlugFromTitle(t *testing.T) {
	_, svc := newTestService(t)

	record, err := svc.Create(context.Background(), domain.CreateContentRequest{
		Collection: "News",
		Title:      "Annual Report 2025 Released",
		Body:       map[string]any{"excerpt": "Read the highlights."},
		Published:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "news", record.Collection)
	assert.Equal(t, "annual-report-2025-released", record.Slug)

	// An explicit slug is normalized the same way.
	record, err = svc.Create(context.Background(), domain.CreateContentRequest{
		Collection: "news",
		Slug:       "Board Update MAY",
		Title:      "Board Update",
	})
	require.NoError(t, err)
	assert.Equal(t, "board-update-may", record.Slug)
}

func TestCreateContent_DuplicateSlugInCollection(t *testing.T) {
	_, svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateContentRequest{
		Collection: "pages",
		Title:      "About Us",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), domain.CreateContentRequest{
		Collection: "pages",
		Title:      "About Us",
	})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)

	// The same slug in another collection is fine.
	_, err = svc.Create(context.Background(), domain.CreateContentRequest{
		Collection: "news",
		Title:      "About Us",
	})
	assert.NoError(t, err)
}

func TestCreateContent_Validation(t *testing.T) {
	_, svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateContentRequest{Title: "No Collection"})
	assert.ErrorIs(t, err, domain.ErrInvalidCollection)

	_, err = svc.Create(context.Background(), domain.CreateContentRequest{Collection: "pages"})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)
}

func TestListPublished_HidesDrafts(t *testing.T) {
	_, svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateContentRequest{
		Collection:   "slides",
		Title:        "Second Slide",
		Published:    true,
		DisplayOrder: 2,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), domain.CreateContentRequest{
		Collection:   "slides",
		Title:        "First Slide",
		Published:    true,
		DisplayOrder: 1,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), domain.CreateContentRequest{
		Collection: "slides",
		Title:      "Draft Slide",
	})
	require.NoError(t, err)

	records, err := svc.ListPublished(context.Background(), "slides")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first-slide", records[0].Slug)
	assert.Equal(t, "second-slide", records[1].Slug)
}

func TestUpdateAndDeleteContent(t *testing.T) {
	db, svc := newTestService(t)

	record, err := svc.Create(context.Background(), domain.CreateContentRequest{
		Collection: "causes",
		Title:      "Clean Water",
	})
	require.NoError(t, err)

	published := true
	title := "Clean Water For All"
	updated, err := svc.Update(context.Background(), record.ID.String(), domain.UpdateContentRequest{
		Title:     &title,
		Published: &published,
	})
	require.NoError(t, err)
	assert.Equal(t, "Clean Water For All", updated.Title)
	assert.True(t, updated.Published)
	// The slug is fixed at creation; retitling does not move URLs.
	assert.Equal(t, record.Slug, updated.Slug)

	require.NoError(t, svc.Delete(context.Background(), record.ID.String()))
	_, err = svc.GetByID(context.Background(), record.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&auditdomain.AuditLog{}).
		Where("action = ?", auditdomain.ActionDeleteContent).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
