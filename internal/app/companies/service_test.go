package companies

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/attend-app/attend-api/internal/adapters/memory/clock"
	memcompanyrepo "github.com/attend-app/attend-api/internal/adapters/memory/companyrepo"
	"github.com/attend-app/attend-api/internal/app/apperr"
	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/companyrepo"
)

func newTestService(t *testing.T) (*Service, *memclock.ManualClock) {
	t.Helper()
	clk := memclock.NewManualClock(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC))
	return NewService(memcompanyrepo.NewRepo(), clk), clk
}

func requireCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	ae, ok := apperr.As(err)
	require.Truef(t, ok, "expected *apperr.Error, got %T (%v)", err, err)
	require.Equal(t, code, ae.Code)
}

func TestCreateCompany(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, clk := newTestService(t)

	c, err := svc.CreateCompany(ctx, CreateCompanyInput{Name: "  Acme   Studio "}, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Acme Studio", c.Name)
	assert.Equal(t, domain.SubjectID("u1"), c.OwnerID)
	assert.True(t, c.CreatedAt.Equal(clk.Now()))
	assert.True(t, c.UpdatedAt.Equal(c.CreatedAt))

	_, err = svc.CreateCompany(ctx, CreateCompanyInput{Name: "Second"}, "u1")
	requireCode(t, err, apperr.CodeCompanyAlreadyExists)

	_, err = svc.CreateCompany(ctx, CreateCompanyInput{Name: "  "}, "u2")
	requireCode(t, err, apperr.CodeValidation)
}

func TestCreateCompany_ConcurrentCreatesYieldOneCompany(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.CreateCompany(ctx, CreateCompanyInput{Name: "Race"}, "u1")
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		requireCode(t, err, apperr.CodeCompanyAlreadyExists)
	}
	assert.Equal(t, 1, created)
}

func TestGetCompany(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.CreateCompany(ctx, CreateCompanyInput{Name: "Acme"}, "u1")
	require.NoError(t, err)

	got, err := svc.GetCompanyByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = svc.GetCompanyByID(ctx, "missing")
	requireCode(t, err, apperr.CodeCompanyNotFound)

	_, err = svc.GetOwnedCompanyByID(ctx, c.ID, "u2")
	requireCode(t, err, apperr.CodeForbidden)

	mine, err := svc.GetCompanyByOwnerID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, c.ID, mine.ID)

	none, err := svc.GetCompanyByOwnerID(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = svc.GetMyCompany(ctx, "u2")
	requireCode(t, err, apperr.CodeCompanyNotFound)

	_, err = RequireOwned(ctx, memcompanyrepo.NewRepo(), "u2")
	requireCode(t, err, apperr.CodeCompanyNotFound)
}

func TestUpdateCompany(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, clk := newTestService(t)

	c, err := svc.CreateCompany(ctx, CreateCompanyInput{Name: "Acme"}, "u1")
	require.NoError(t, err)

	_, err = svc.UpdateCompany(ctx, "missing", UpdateCompanyInput{Name: "X"}, "u1")
	requireCode(t, err, apperr.CodeCompanyNotFound)

	_, err = svc.UpdateCompany(ctx, c.ID, UpdateCompanyInput{Name: "Hijack"}, "u2")
	requireCode(t, err, apperr.CodeForbidden)
	untouched, err := svc.GetCompanyByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", untouched.Name)
	assert.True(t, untouched.UpdatedAt.Equal(c.UpdatedAt))

	clk.Advance(time.Minute)
	updated, err := svc.UpdateCompany(ctx, c.ID, UpdateCompanyInput{Name: "Acme Two"}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Two", updated.Name)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.Equal(t, c.OwnerID, updated.OwnerID)

	got, err := svc.GetCompanyByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Two", got.Name)
}

func TestDeleteCompany(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.CreateCompany(ctx, CreateCompanyInput{Name: "Acme"}, "u1")
	require.NoError(t, err)

	requireCode(t, svc.DeleteCompany(ctx, c.ID, "u2"), apperr.CodeForbidden)
	kept, err := svc.GetCompanyByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", kept.Name)
	requireCode(t, svc.DeleteCompany(ctx, "missing", "u1"), apperr.CodeCompanyNotFound)

	require.NoError(t, svc.DeleteCompany(ctx, c.ID, "u1"))
	_, err = svc.GetCompanyByID(ctx, c.ID)
	requireCode(t, err, apperr.CodeCompanyNotFound)

	// The owner may create a new company afterwards.
	_, err = svc.CreateCompany(ctx, CreateCompanyInput{Name: "Acme Again"}, "u1")
	require.NoError(t, err)
}

// zeroRowsRepo simulates a write that matched no rows.
type zeroRowsRepo struct {
	companyrepo.Repository
	existing domain.Company
}

func (r zeroRowsRepo) Update(ctx context.Context, id domain.CompanyID, mutate func(*domain.Company) error) (domain.Company, error) {
	c := r.existing
	if err := mutate(&c); err != nil {
		return domain.Company{}, err
	}
	return domain.Company{}, companyrepo.ErrNoRowsAffected
}

func (r zeroRowsRepo) Delete(ctx context.Context, id domain.CompanyID, check func(domain.Company) error) error {
	if err := check(r.existing); err != nil {
		return err
	}
	return companyrepo.ErrNoRowsAffected
}

func TestUpdateAndDelete_ZeroRowsAffected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := memclock.NewManualClock(time.Unix(0, 0))
	existing := domain.Company{ID: "c1", Name: "Acme", OwnerID: "u1"}
	svc := NewService(zeroRowsRepo{existing: existing}, clk)

	_, err := svc.UpdateCompany(ctx, "c1", UpdateCompanyInput{Name: "X"}, "u1")
	requireCode(t, err, apperr.CodeCompanyUpdateFailed)

	requireCode(t, svc.DeleteCompany(ctx, "c1", "u1"), apperr.CodeCompanyDeleteFailed)

	// Ownership is still checked first.
	_, err = svc.UpdateCompany(ctx, "c1", UpdateCompanyInput{Name: "X"}, "u2")
	requireCode(t, err, apperr.CodeForbidden)
}

func TestRepositoryErrorsPassThrough(t *testing.T) {
	t.Parallel()
	boom := errors.New("db down")
	svc := NewService(failingRepo{err: boom}, memclock.NewManualClock(time.Unix(0, 0)))

	_, err := svc.GetCompanyByOwnerID(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	_, err = svc.CreateCompany(context.Background(), CreateCompanyInput{Name: "Acme"}, "u1")
	assert.ErrorIs(t, err, boom)
}

type failingRepo struct {
	companyrepo.Repository
	err error
}

func (r failingRepo) GetByOwner(context.Context, domain.SubjectID) (domain.Company, error) {
	return domain.Company{}, r.err
}
