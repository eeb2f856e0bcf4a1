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
	"github.com/sevasetu/sevasetu/internal/auth/domain"
	"github.com/sevasetu/sevasetu/internal/auth/repository"
	"github.com/sevasetu/sevasetu/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*gorm.DB, *clock.FakeClock, domain.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&auditdomain.AuditLog{},
	))

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

	userRepo, sessionRepo := repository.Provide()
	svc := New(Params{
		DB:          db,
		Log:         logger,
		GenID:       node,
		Clock:       fake,
		Repo:        userRepo,
		SessionRepo: sessionRepo,
		Audit:       audit,
	})

	return db, fake, svc
}

func createUser(t *testing.T, svc domain.Service) *domain.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "ops@sevasetu.org",
		Role:     domain.RoleStaff,
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return user
}

func TestCreateUser_Validation(t *testing.T) {
	_, _, svc := newTestService(t)

	_, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "not-an-email",
		Role:     domain.RoleStaff,
		Password: "long enough password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "ops@sevasetu.org",
		Role:     domain.RoleStaff,
		Password: "short",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "ops@sevasetu.org",
		Role:     "superuser",
		Password: "long enough password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	user := createUser(t, svc)
	assert.Equal(t, "ops", user.DisplayName)

	_, err = svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "OPS@sevasetu.org",
		Role:     domain.RoleViewer,
		Password: "another password here",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLogin_SessionLifecycle(t *testing.T) {
	db, fake, svc := newTestService(t)
	user := createUser(t, svc)

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "ops@sevasetu.org",
		Password: "wrong password!!",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "Ops@SevaSetu.org",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.RawToken)

	// The raw token is never persisted, only its hash.
	var session domain.Session
	require.NoError(t, db.First(&session, "id = ?", result.SessionID).Error)
	assert.NotEqual(t, result.RawToken, session.SessionTokenHash)

	gotSession, gotUser, err := svc.Authenticate(context.Background(), result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, result.SessionID, gotSession.ID)
	assert.Equal(t, user.ID, gotUser.ID)

	// The login itself is audited with the user as actor.
	var logRow auditdomain.AuditLog
	require.NoError(t, db.First(&logRow, "action = ?", auditdomain.ActionLogin).Error)
	require.NotNil(t, logRow.ActorID)
	assert.Equal(t, user.ID.String(), *logRow.ActorID)

	fake.Advance(8 * 24 * time.Hour)
	_, _, err = svc.Authenticate(context.Background(), result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestLogout_RevokesSession(t *testing.T) {
	_, _, svc := newTestService(t)
	createUser(t, svc)

	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "ops@sevasetu.org",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.RawToken))

	_, _, err = svc.Authenticate(context.Background(), result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)

	assert.ErrorIs(t, svc.Logout(context.Background(), "bogus-token"), domain.ErrInvalidSession)
}

func TestChangePassword(t *testing.T) {
	_, _, svc := newTestService(t)
	user := createUser(t, svc)

	err := svc.ChangePassword(context.Background(), user.ID.String(), "correct horse battery", "short")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// The current password is verified, not just carried along.
	err = svc.ChangePassword(context.Background(), user.ID.String(), "not the password", "a brand new password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID.String(), "correct horse battery", "a brand new password"))

	_, err = svc.Login(context.Background(), domain.LoginRequest{
		Email:    "ops@sevasetu.org",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), domain.LoginRequest{
		Email:    "ops@sevasetu.org",
		Password: "a brand new password",
	})
	assert.NoError(t, err)
}
