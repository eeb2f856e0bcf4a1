package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	auditrepository "github.com/sevasetu/sevasetu/internal/audit/repository"
	auditservice "github.com/sevasetu/sevasetu/internal/audit/service"
	"github.com/sevasetu/sevasetu/internal/clock"
	"github.com/sevasetu/sevasetu/internal/donation/domain"
	"github.com/sevasetu/sevasetu/internal/donation/repository"
	donordomain "github.com/sevasetu/sevasetu/internal/donor/domain"
	donorrepository "github.com/sevasetu/sevasetu/internal/donor/repository"
	donorservice "github.com/sevasetu/sevasetu/internal/donor/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testStack struct {
	db     *gorm.DB
	node   *snowflake.Node
	clock  *clock.FakeClock
	donors donordomain.Service
	svc    domain.Service
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One pooled connection keeps concurrent transactions on the same
	// in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&donordomain.Donor{},
		&domain.Donation{},
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

	donors := donorservice.New(donorservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Clock: fake,
		Repo:  donorrepository.Provide(),
		Audit: audit,
	})

	svc := New(Params{
		DB:     db,
		Log:    logger,
		GenID:  node,
		Clock:  fake,
		Repo:   repository.Provide(),
		Donors: donors,
		Audit:  audit,
	})

	return &testStack{db: db, node: node, clock: fake, donors: donors, svc: svc}
}

func (s *testStack) seedDonor(t *testing.T, donor donordomain.Donor) donordomain.Donor {
	t.Helper()
	if donor.ID == 0 {
		donor.ID = s.node.Generate()
	}
	if donor.Type == "" {
		donor.Type = donordomain.DonorTypeIndividual
	}
	if donor.Category == "" {
		donor.Category = donordomain.CategoryLocal
	}
	if donor.Name == "" {
		donor.Name = "Asha Kulkarni"
	}
	donor.CreatedAt = s.clock.Now()
	donor.UpdatedAt = s.clock.Now()
	require.NoError(t, s.db.Create(&donor).Error)
	return donor
}

func (s *testStack) auditCount(t *testing.T, action string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.db.Model(&auditdomain.AuditLog{}).Where("action = ?", action).Count(&count).Error)
	return count
}

func TestCreateDonation_StaffCompleted(t *testing.T) {
	stack := newTestStack(t)
	donor := stack.seedDonor(t, donordomain.Donor{})

	created, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID:      donor.ID.String(),
		Amount:       50000,
		Status:       domain.StatusCompleted,
		StaffEntered: true,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, created.Status)
	assert.Equal(t, domain.CurrencyLocal, created.CurrencyCategory)
	assert.Equal(t, "bank_transfer", created.PaymentMode)
	assert.NotEmpty(t, created.Reference)

	// A completed entry counts toward the donor total immediately.
	var reloaded donordomain.Donor
	require.NoError(t, stack.db.First(&reloaded, "id = ?", donor.ID).Error)
	assert.Equal(t, int64(50000), reloaded.TotalDonated)

	assert.Equal(t, int64(1), stack.auditCount(t, auditdomain.ActionCreateDonation))
}

func TestCreateDonation_PublicAlwaysPending(t *testing.T) {
	stack := newTestStack(t)
	donor := stack.seedDonor(t, donordomain.Donor{})

	created, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID:      donor.ID.String(),
		Amount:       1200,
		Status:       domain.StatusCompleted,
		StaffEntered: false,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)

	var reloaded donordomain.Donor
	require.NoError(t, stack.db.First(&reloaded, "id = ?", donor.ID).Error)
	assert.Equal(t, int64(0), reloaded.TotalDonated)
}

func TestCreateDonation_ForeignDonorDefaultsToFCRA(t *testing.T) {
	stack := newTestStack(t)
	donor := stack.seedDonor(t, donordomain.Donor{
		Name:     "Global Relief Trust",
		Type:     donordomain.DonorTypeInternational,
		Category: donordomain.CategoryForeign,
	})

	created, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID:      donor.ID.String(),
		Amount:       250000,
		StaffEntered: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyFCRA, created.CurrencyCategory)
}

func TestCreateDonation_PANRequiredFor80G(t *testing.T) {
	stack := newTestStack(t)
	donor := stack.seedDonor(t, donordomain.Donor{})

	_, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID:      donor.ID.String(),
		Amount:       10000,
		Requires80G:  true,
		StaffEntered: true,
	})
	assert.ErrorIs(t, err, domain.ErrPANRequired)

	created, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID:      donor.ID.String(),
		Amount:       10000,
		Requires80G:  true,
		PAN:          "abcde1234f",
		StaffEntered: true,
	})
	require.NoError(t, err)
	require.NotNil(t, created.PAN)
	assert.Equal(t, "ABCDE1234F", *created.PAN)
}

func TestCreateDonation_80GFallsBackToDonorPAN(t *testing.T) {
	stack := newTestStack(t)
	pan := "FGHIJ5678K"
	donor := stack.seedDonor(t, donordomain.Donor{PAN: &pan})

	created, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID:      donor.ID.String(),
		Amount:       7500,
		Requires80G:  true,
		StaffEntered: true,
	})
	require.NoError(t, err)
	require.NotNil(t, created.PAN)
	assert.Equal(t, pan, *created.PAN)
}

func TestCreateDonation_Validation(t *testing.T) {
	stack := newTestStack(t)
	donor := stack.seedDonor(t, donordomain.Donor{})

	_, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID: donor.ID.String(),
		Amount:  0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID: "not-a-number",
		Amount:  100,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDonor)

	_, err = stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID: stack.node.Generate().String(),
		Amount:  100,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDonor)
}

func TestTransitionStatus_CompleteRecomputesTotal(t *testing.T) {
	stack := newTestStack(t)
	donor := stack.seedDonor(t, donordomain.Donor{})

	pending, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID: donor.ID.String(),
		Amount:  30000,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, pending.Status)

	completed, err := stack.svc.TransitionStatus(context.Background(), pending.ID.String(), domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)

	var reloaded donordomain.Donor
	require.NoError(t, stack.db.First(&reloaded, "id = ?", donor.ID).Error)
	assert.Equal(t, int64(30000), reloaded.TotalDonated)

	assert.Equal(t, int64(1), stack.auditCount(t, auditdomain.ActionUpdateDonationStatus))
}

func TestTransitionStatus_VoidRemovesFromTotal(t *testing.T) {
	stack := newTestStack(t)
	donor := stack.seedDonor(t, donordomain.Donor{})

	first, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID:      donor.ID.String(),
		Amount:       20000,
		Status:       domain.StatusCompleted,
		StaffEntered: true,
	})
	require.NoError(t, err)

	second, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID:      donor.ID.String(),
		Amount:       5000,
		Status:       domain.StatusCompleted,
		StaffEntered: true,
	})
	require.NoError(t, err)

	var reloaded donordomain.Donor
	require.NoError(t, stack.db.First(&reloaded, "id = ?", donor.ID).Error)
	require.Equal(t, int64(25000), reloaded.TotalDonated)

	_, err = stack.svc.TransitionStatus(context.Background(), second.ID.String(), domain.StatusVoid)
	require.NoError(t, err)

	require.NoError(t, stack.db.First(&reloaded, "id = ?", donor.ID).Error)
	assert.Equal(t, int64(20000), reloaded.TotalDonated)

	// The earlier completed donation is untouched.
	got, err := stack.svc.GetByID(context.Background(), first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestTransitionStatus_InvalidMoves(t *testing.T) {
	stack := newTestStack(t)
	donor := stack.seedDonor(t, donordomain.Donor{})

	pending, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID: donor.ID.String(),
		Amount:  1000,
	})
	require.NoError(t, err)

	voided, err := stack.svc.TransitionStatus(context.Background(), pending.ID.String(), domain.StatusVoid)
	require.NoError(t, err)
	require.Equal(t, domain.StatusVoid, voided.Status)

	// VOID is terminal.
	_, err = stack.svc.TransitionStatus(context.Background(), pending.ID.String(), domain.StatusCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = stack.svc.TransitionStatus(context.Background(), pending.ID.String(), domain.StatusVoid)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// PENDING is never a transition target.
	_, err = stack.svc.TransitionStatus(context.Background(), pending.ID.String(), domain.StatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = stack.svc.TransitionStatus(context.Background(), stack.node.Generate().String(), domain.StatusCompleted)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransitionStatus_ConcurrentCompletionsKeepTotalConsistent(t *testing.T) {
	stack := newTestStack(t)
	donor := stack.seedDonor(t, donordomain.Donor{})

	amounts := []int64{10000, 7000, 3000}
	ids := make([]string, 0, len(amounts))
	for _, amount := range amounts {
		pending, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
			DonorID: donor.ID.String(),
			Amount:  amount,
		})
		require.NoError(t, err)
		ids = append(ids, pending.ID.String())
	}

	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = stack.svc.TransitionStatus(context.Background(), id, domain.StatusCompleted)
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// Whatever order the transitions committed in, the persisted total must
	// equal the ledger sum.
	var reloaded donordomain.Donor
	require.NoError(t, stack.db.First(&reloaded, "id = ?", donor.ID).Error)
	assert.Equal(t, int64(20000), reloaded.TotalDonated)
}

func TestTransitionStatus_RecompleteIsIdempotent(t *testing.T) {
	stack := newTestStack(t)
	donor := stack.seedDonor(t, donordomain.Donor{})

	created, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID:      donor.ID.String(),
		Amount:       8000,
		Status:       domain.StatusCompleted,
		StaffEntered: true,
	})
	require.NoError(t, err)

	before := stack.auditCount(t, auditdomain.ActionUpdateDonationStatus)

	again, err := stack.svc.TransitionStatus(context.Background(), created.ID.String(), domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, again.Status)

	// No double count, no extra audit row.
	var reloaded donordomain.Donor
	require.NoError(t, stack.db.First(&reloaded, "id = ?", donor.ID).Error)
	assert.Equal(t, int64(8000), reloaded.TotalDonated)
	assert.Equal(t, before, stack.auditCount(t, auditdomain.ActionUpdateDonationStatus))
}

func TestListDonations_Filters(t *testing.T) {
	stack := newTestStack(t)
	donorA := stack.seedDonor(t, donordomain.Donor{Name: "Donor A"})
	donorB := stack.seedDonor(t, donordomain.Donor{Name: "Donor B"})

	for i := 0; i < 3; i++ {
		_, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
			DonorID:      donorA.ID.String(),
			Amount:       1000,
			Status:       domain.StatusCompleted,
			StaffEntered: true,
		})
		require.NoError(t, err)
	}
	_, err := stack.svc.Create(context.Background(), domain.CreateDonationRequest{
		DonorID: donorB.ID.String(),
		Amount:  500,
	})
	require.NoError(t, err)

	resp, err := stack.svc.List(context.Background(), domain.ListDonationRequest{
		DonorID: donorA.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.Donations, 3)

	resp, err = stack.svc.List(context.Background(), domain.ListDonationRequest{
		Status: domain.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Donations, 1)
	assert.Equal(t, donorB.ID, resp.Donations[0].DonorID)
}
