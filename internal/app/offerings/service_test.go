package offerings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/attend-app/attend-api/internal/adapters/memory/clock"
	memcompanyrepo "github.com/attend-app/attend-api/internal/adapters/memory/companyrepo"
	memofferingrepo "github.com/attend-app/attend-api/internal/adapters/memory/offeringrepo"
	"github.com/attend-app/attend-api/internal/app/apperr"
	"github.com/attend-app/attend-api/internal/app/companies"
	"github.com/attend-app/attend-api/internal/app/patch"
	"github.com/attend-app/attend-api/internal/domain"
)

type fixture struct {
	svc       *Service
	companies *companies.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clk := memclock.NewManualClock(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC))
	companyRepo := memcompanyrepo.NewRepo()
	f := fixture{
		svc:       NewService(companyRepo, memofferingrepo.NewRepo(), clk),
		companies: companies.NewService(companyRepo, clk),
	}
	for _, owner := range []string{"owner", "rival"} {
		_, err := f.companies.CreateCompany(context.Background(), companies.CreateCompanyInput{Name: owner + " co"}, domain.SubjectID(owner))
		require.NoError(t, err)
	}
	return f
}

func requireCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	ae, ok := apperr.As(err)
	require.Truef(t, ok, "expected *apperr.Error, got %T (%v)", err, err)
	require.Equal(t, code, ae.Code)
}

func strPtr(s string) *string { return &s }

func TestCreateAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	o, err := f.svc.CreateOffering(ctx, "owner", CreateOfferingInput{
		Name:            " Haircut ",
		Description:     strPtr("  Wash included "),
		DurationMinutes: 30,
		PriceCents:      2500,
	})
	require.NoError(t, err)
	assert.Equal(t, "Haircut", o.Name)
	require.NotNil(t, o.Description)
	assert.Equal(t, "Wash included", *o.Description)

	_, err = f.svc.CreateOffering(ctx, "rival", CreateOfferingInput{Name: "Other", DurationMinutes: 15})
	require.NoError(t, err)

	list, err := f.svc.ListOfferings(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, o.ID, list[0].ID)

	_, err = f.svc.ListOfferings(ctx, "no-company")
	requireCode(t, err, apperr.CodeCompanyNotFound)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateOffering(ctx, "owner", CreateOfferingInput{Name: "X", DurationMinutes: 0})
	requireCode(t, err, apperr.CodeValidation)
	_, err = f.svc.CreateOffering(ctx, "owner", CreateOfferingInput{Name: "X", DurationMinutes: 10, PriceCents: -1})
	requireCode(t, err, apperr.CodeValidation)
	_, err = f.svc.CreateOffering(ctx, "owner", CreateOfferingInput{Name: "", DurationMinutes: 10})
	requireCode(t, err, apperr.CodeValidation)
}

func TestGetUpdateDelete_Ownership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	o, err := f.svc.CreateOffering(ctx, "owner", CreateOfferingInput{Name: "Cut", Description: strPtr("d"), DurationMinutes: 30, PriceCents: 100})
	require.NoError(t, err)

	_, err = f.svc.GetOffering(ctx, "rival", o.ID)
	requireCode(t, err, apperr.CodeForbidden)
	_, err = f.svc.GetOffering(ctx, "owner", "missing")
	requireCode(t, err, apperr.CodeServiceNotFound)

	_, err = f.svc.UpdateOffering(ctx, "rival", o.ID, UpdateOfferingInput{Name: patch.Some("Stolen")})
	requireCode(t, err, apperr.CodeForbidden)
	requireCode(t, f.svc.DeleteOffering(ctx, "rival", o.ID), apperr.CodeForbidden)

	updated, err := f.svc.UpdateOffering(ctx, "owner", o.ID, UpdateOfferingInput{
		Description:     patch.Null[string](),
		DurationMinutes: patch.Some(45),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cut", updated.Name)
	assert.Nil(t, updated.Description)
	assert.Equal(t, 45, updated.DurationMinutes)
	assert.Equal(t, 100, updated.PriceCents)

	_, err = f.svc.UpdateOffering(ctx, "owner", o.ID, UpdateOfferingInput{DurationMinutes: patch.Some(0)})
	requireCode(t, err, apperr.CodeValidation)
	_, err = f.svc.UpdateOffering(ctx, "owner", o.ID, UpdateOfferingInput{Name: patch.Null[string]()})
	requireCode(t, err, apperr.CodeValidation)

	require.NoError(t, f.svc.DeleteOffering(ctx, "owner", o.ID))
	requireCode(t, f.svc.DeleteOffering(ctx, "owner", o.ID), apperr.CodeServiceNotFound)
}
