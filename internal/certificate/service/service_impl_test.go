package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	auditrepository "github.com/sevasetu/sevasetu/internal/audit/repository"
	auditservice "github.com/sevasetu/sevasetu/internal/audit/service"
	"github.com/sevasetu/sevasetu/internal/certificate/domain"
	"github.com/sevasetu/sevasetu/internal/certificate/repository"
	"github.com/sevasetu/sevasetu/internal/clock"
	donationdomain "github.com/sevasetu/sevasetu/internal/donation/domain"
	donordomain "github.com/sevasetu/sevasetu/internal/donor/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testStack struct {
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	svc   domain.Service
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
		&donationdomain.Donation{},
		&domain.Certificate{},
		&domain.CertificateCounter{},
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

	svc := New(Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
		Audit: audit,
	})

	return &testStack{db: db, node: node, clock: fake, svc: svc}
}

func (s *testStack) seedDonation(t *testing.T, status donationdomain.DonationStatus, requires80G bool, pan *string) donationdomain.Donation {
	t.Helper()

	donor := donordomain.Donor{
		ID:        s.node.Generate(),
		Name:      "Ravi Menon",
		Type:      donordomain.DonorTypeIndividual,
		Category:  donordomain.CategoryLocal,
		CreatedAt: s.clock.Now(),
		UpdatedAt: s.clock.Now(),
	}
	require.NoError(t, s.db.Create(&donor).Error)

	donation := donationdomain.Donation{
		ID:               s.node.Generate(),
		DonorID:          donor.ID,
		Amount:           25000,
		CurrencyCategory: donationdomain.CurrencyLocal,
		PaymentMode:      "upi",
		Status:           status,
		Requires80G:      requires80G,
		PAN:              pan,
		Reference:        ulid.Make().String(),
		DonationDate:     s.clock.Now(),
		CreatedAt:        s.clock.Now(),
		UpdatedAt:        s.clock.Now(),
	}
	require.NoError(t, s.db.Create(&donation).Error)
	return donation
}

func strPtr(v string) *string { return &v }

func TestIssue_SequentialNumbers(t *testing.T) {
	stack := newTestStack(t)

	first := stack.seedDonation(t, donationdomain.StatusCompleted, true, strPtr("ABCDE1234F"))
	second := stack.seedDonation(t, donationdomain.StatusCompleted, true, strPtr("FGHIJ5678K"))

	certA, err := stack.svc.Issue(context.Background(), first.ID.String())
	require.NoError(t, err)
	certB, err := stack.svc.Issue(context.Background(), second.ID.String())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, certA.Status)
	assert.Equal(t, int64(1), certA.CertificateNumber)
	assert.Equal(t, int64(2), certB.CertificateNumber)
	assert.Equal(t, "80G-000001", domain.FormatNumber(certA.CertificateNumber))

	var count int64
	require.NoError(t, stack.db.Model(&auditdomain.AuditLog{}).
		Where("action = ?", auditdomain.ActionGenerateCertificate).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestIssue_ConcurrentRequestsGetDistinctNumbers(t *testing.T) {
	stack := newTestStack(t)

	donations := []donationdomain.Donation{
		stack.seedDonation(t, donationdomain.StatusCompleted, true, strPtr("ABCDE1234F")),
		stack.seedDonation(t, donationdomain.StatusCompleted, true, strPtr("FGHIJ5678K")),
		stack.seedDonation(t, donationdomain.StatusCompleted, true, strPtr("KLMNO9012P")),
	}

	certs := make([]domain.Certificate, len(donations))
	errs := make([]error, len(donations))

	var wg sync.WaitGroup
	for i, donation := range donations {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			certs[i], errs[i] = stack.svc.Issue(context.Background(), id)
		}(i, donation.ID.String())
	}
	wg.Wait()

	numbers := make([]int64, 0, len(certs))
	for i := range certs {
		require.NoError(t, errs[i])
		numbers = append(numbers, certs[i].CertificateNumber)
	}
	assert.ElementsMatch(t, []int64{1, 2, 3}, numbers)

	var counter domain.CertificateCounter
	require.NoError(t, stack.db.First(&counter, "id = 1").Error)
	assert.Equal(t, int64(3), counter.Value)
}

func TestIssue_RejectsIneligibleDonations(t *testing.T) {
	stack := newTestStack(t)

	cases := []struct {
		name     string
		donation donationdomain.Donation
	}{
		{"pending", stack.seedDonation(t, donationdomain.StatusPending, true, strPtr("ABCDE1234F"))},
		{"void", stack.seedDonation(t, donationdomain.StatusVoid, true, strPtr("ABCDE1234F"))},
		{"not 80g", stack.seedDonation(t, donationdomain.StatusCompleted, false, strPtr("ABCDE1234F"))},
		{"missing pan", stack.seedDonation(t, donationdomain.StatusCompleted, true, nil)},
		{"malformed pan", stack.seedDonation(t, donationdomain.StatusCompleted, true, strPtr("BAD"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := stack.svc.Issue(context.Background(), tc.donation.ID.String())
			assert.ErrorIs(t, err, domain.ErrDonationNotEligible)
		})
	}

	// A failed issuance leaves no certificate and no audit row behind.
	var certCount, auditCount int64
	require.NoError(t, stack.db.Model(&domain.Certificate{}).Count(&certCount).Error)
	require.NoError(t, stack.db.Model(&auditdomain.AuditLog{}).Count(&auditCount).Error)
	assert.Zero(t, certCount)
	assert.Zero(t, auditCount)
}

func TestIssue_RejectsSecondActiveCertificate(t *testing.T) {
	stack := newTestStack(t)
	donation := stack.seedDonation(t, donationdomain.StatusCompleted, true, strPtr("ABCDE1234F"))

	_, err := stack.svc.Issue(context.Background(), donation.ID.String())
	require.NoError(t, err)

	_, err = stack.svc.Issue(context.Background(), donation.ID.String())
	assert.ErrorIs(t, err, domain.ErrCertificateAlreadyActive)
}

func TestVoid_RequiresReason(t *testing.T) {
	stack := newTestStack(t)
	donation := stack.seedDonation(t, donationdomain.StatusCompleted, true, strPtr("ABCDE1234F"))

	cert, err := stack.svc.Issue(context.Background(), donation.ID.String())
	require.NoError(t, err)

	_, err = stack.svc.Void(context.Background(), cert.ID.String(), "  ")
	assert.ErrorIs(t, err, domain.ErrVoidReasonRequired)

	voided, err := stack.svc.Void(context.Background(), cert.ID.String(), "wrong donor name")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoid, voided.Status)
	require.NotNil(t, voided.VoidReason)
	assert.Equal(t, "wrong donor name", *voided.VoidReason)
	require.NotNil(t, voided.VoidedAt)

	_, err = stack.svc.Void(context.Background(), cert.ID.String(), "again")
	assert.ErrorIs(t, err, domain.ErrCertificateAlreadyVoid)
}

func TestIssue_AfterVoidGetsFreshNumber(t *testing.T) {
	stack := newTestStack(t)
	donation := stack.seedDonation(t, donationdomain.StatusCompleted, true, strPtr("ABCDE1234F"))

	first, err := stack.svc.Issue(context.Background(), donation.ID.String())
	require.NoError(t, err)

	_, err = stack.svc.Void(context.Background(), first.ID.String(), "donor details corrected")
	require.NoError(t, err)

	second, err := stack.svc.Issue(context.Background(), donation.ID.String())
	require.NoError(t, err)

	// The voided number is retired, never recycled.
	assert.Greater(t, second.CertificateNumber, first.CertificateNumber)
	assert.Equal(t, domain.StatusActive, second.Status)

	got, err := stack.svc.GetByID(context.Background(), first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoid, got.Status)
}

func TestList_FiltersByStatusAndDonation(t *testing.T) {
	stack := newTestStack(t)

	donationA := stack.seedDonation(t, donationdomain.StatusCompleted, true, strPtr("ABCDE1234F"))
	donationB := stack.seedDonation(t, donationdomain.StatusCompleted, true, strPtr("FGHIJ5678K"))

	certA, err := stack.svc.Issue(context.Background(), donationA.ID.String())
	require.NoError(t, err)
	_, err = stack.svc.Issue(context.Background(), donationB.ID.String())
	require.NoError(t, err)

	_, err = stack.svc.Void(context.Background(), certA.ID.String(), "duplicate entry")
	require.NoError(t, err)

	resp, err := stack.svc.List(context.Background(), domain.ListCertificateRequest{Status: domain.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Certificates, 1)
	assert.Equal(t, donationB.ID, resp.Certificates[0].DonationID)

	resp, err = stack.svc.List(context.Background(), domain.ListCertificateRequest{DonationID: donationA.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
}

func TestIssue_InvalidID(t *testing.T) {
	stack := newTestStack(t)

	_, err := stack.svc.Issue(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = stack.svc.Issue(context.Background(), stack.node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
