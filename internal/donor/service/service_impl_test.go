package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	auditrepository "github.com/sevasetu/sevasetu/internal/audit/repository"
	auditservice "github.com/sevasetu/sevasetu/internal/audit/service"
	"github.com/sevasetu/sevasetu/internal/clock"
	donationdomain "github.com/sevasetu/sevasetu/internal/donation/domain"
	"github.com/sevasetu/sevasetu/internal/donor/domain"
	"github.com/sevasetu/sevasetu/internal/donor/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*gorm.DB, *snowflake.Node, domain.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Donor{},
		&donationdomain.Donation{},
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

	return db, node, svc
}

func TestCreateDonor_Individual(t *testing.T) {
	db, _, svc := newTestService(t)

	donor, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		Name:       "Asha Kulkarni",
		Type:       domain.DonorTypeIndividual,
		Email:      "asha@example.org",
		Individual: &domain.IndividualAttrs{PAN: "abcde1234f"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DonorTypeIndividual, donor.Type)
	assert.Equal(t, domain.CategoryLocal, donor.Category)
	require.NotNil(t, donor.PAN)
	assert.Equal(t, "ABCDE1234F", *donor.PAN)

	var count int64
	require.NoError(t, db.Model(&auditdomain.AuditLog{}).
		Where("action = ?", auditdomain.ActionCreateDonor).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateDonor_IndividualPANOptionalAtIntake(t *testing.T) {
	_, _, svc := newTestService(t)

	donor, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		Name: "Walk-in Donor",
		Type: domain.DonorTypeIndividual,
	})
	require.NoError(t, err)
	assert.Nil(t, donor.PAN)
}

func TestCreateDonor_CorporateRequiredFields(t *testing.T) {
	_, _, svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		Name: "Acme Industries",
		Type: domain.DonorTypeCorporate,
	})

	var missing *domain.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"cin", "pan"}, missing.Fields)

	donor, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		Name: "Acme Industries",
		Type: domain.DonorTypeCorporate,
		Corporate: &domain.CorporateAttrs{
			CIN:                   "l12345mh2001plc123456",
			PAN:                   "AAACA1234B",
			CSRRegistrationNumber: "CSR00001234",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, donor.CIN)
	assert.Equal(t, "L12345MH2001PLC123456", *donor.CIN)
	require.NotNil(t, donor.CSRRegistrationNumber)
}

func TestCreateDonor_InternationalRequiredFields(t *testing.T) {
	_, _, svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		Name: "Global Relief Trust",
		Type: domain.DonorTypeInternational,
	})

	var missing *domain.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"country", "contact_email"}, missing.Fields)

	donor, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		Name: "Global Relief Trust",
		Type: domain.DonorTypeInternational,
		International: &domain.InternationalAttrs{
			Country:      "Germany",
			ContactEmail: "grants@relief.example",
			NGOType:      "foundation",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryForeign, donor.Category)
	assert.Equal(t, "grants@relief.example", donor.Email)
	require.NotNil(t, donor.Country)
}

func TestCreateDonor_InvalidType(t *testing.T) {
	_, _, svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		Name: "Nobody",
		Type: "TRUST",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidType)
}

func TestUpdateDonor_TypeImmutable(t *testing.T) {
	_, _, svc := newTestService(t)

	donor, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		Name: "Asha Kulkarni",
		Type: domain.DonorTypeIndividual,
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), donor.ID.String(), domain.UpdateDonorRequest{
		Corporate: &domain.CorporateAttrs{CIN: "L12345MH2001PLC123456", PAN: "AAACA1234B"},
	})
	assert.ErrorIs(t, err, domain.ErrTypeImmutable)

	name := "Asha K"
	updated, err := svc.Update(context.Background(), donor.ID.String(), domain.UpdateDonorRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", updated.Name)
	assert.Equal(t, domain.DonorTypeIndividual, updated.Type)
}

func TestRecomputeTotal_OnlyCountsCompleted(t *testing.T) {
	db, node, svc := newTestService(t)

	donor, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		Name: "Asha Kulkarni",
		Type: domain.DonorTypeIndividual,
	})
	require.NoError(t, err)

	seed := func(amount int64, status donationdomain.DonationStatus) {
		require.NoError(t, db.Create(&donationdomain.Donation{
			ID:               node.Generate(),
			DonorID:          donor.ID,
			Amount:           amount,
			CurrencyCategory: donationdomain.CurrencyLocal,
			PaymentMode:      "upi",
			Status:           status,
			Reference:        ulid.Make().String(),
			DonationDate:     time.Now().UTC(),
			CreatedAt:        time.Now().UTC(),
			UpdatedAt:        time.Now().UTC(),
		}).Error)
	}
	seed(10000, donationdomain.StatusCompleted)
	seed(4000, donationdomain.StatusCompleted)
	seed(99999, donationdomain.StatusPending)
	seed(500, donationdomain.StatusVoid)

	total, err := svc.RecomputeTotal(context.Background(), nil, donor.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(14000), total)

	// Recomputation is derived from the ledger, so running it twice
	// yields the same value.
	total, err = svc.RecomputeTotal(context.Background(), nil, donor.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(14000), total)

	got, err := svc.GetByID(context.Background(), donor.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(14000), got.TotalDonated)
}

func TestRecomputeTotal_MissingDonor(t *testing.T) {
	_, node, svc := newTestService(t)

	_, err := svc.RecomputeTotal(context.Background(), nil, node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListDonors_SearchAndArchived(t *testing.T) {
	_, _, svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		Name: "Asha Kulkarni",
		Type: domain.DonorTypeIndividual,
	})
	require.NoError(t, err)

	corp, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		Name: "Acme Industries",
		Type: domain.DonorTypeCorporate,
		Corporate: &domain.CorporateAttrs{
			CIN: "L12345MH2001PLC123456",
			PAN: "AAACA1234B",
		},
	})
	require.NoError(t, err)

	archived := true
	_, err = svc.Update(context.Background(), corp.ID.String(), domain.UpdateDonorRequest{Archived: &archived})
	require.NoError(t, err)

	resp, err := svc.List(context.Background(), domain.ListDonorRequest{Search: "acme"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)

	notArchived := false
	resp, err = svc.List(context.Background(), domain.ListDonorRequest{Archived: &notArchived})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Donors, 1)
	assert.Equal(t, "Asha Kulkarni", resp.Donors[0].Name)
}
