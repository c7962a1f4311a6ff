package clients

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclientrepo "github.com/attend-app/attend-api/internal/adapters/memory/clientrepo"
	memclock "github.com/attend-app/attend-api/internal/adapters/memory/clock"
	memcompanyrepo "github.com/attend-app/attend-api/internal/adapters/memory/companyrepo"
	"github.com/attend-app/attend-api/internal/app/apperr"
	"github.com/attend-app/attend-api/internal/app/companies"
	"github.com/attend-app/attend-api/internal/app/patch"
	"github.com/attend-app/attend-api/internal/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	clk := memclock.NewManualClock(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC))
	companyRepo := memcompanyrepo.NewRepo()
	companySvc := companies.NewService(companyRepo, clk)
	for _, owner := range []domain.SubjectID{"owner", "rival"} {
		_, err := companySvc.CreateCompany(context.Background(), companies.CreateCompanyInput{Name: string(owner)}, owner)
		require.NoError(t, err)
	}
	return NewService(companyRepo, memclientrepo.NewRepo(), clk)
}

func requireCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	ae, ok := apperr.As(err)
	require.Truef(t, ok, "expected *apperr.Error, got %T (%v)", err, err)
	require.Equal(t, code, ae.Code)
}

func strPtr(s string) *string { return &s }

func TestCreateClient_EmailUniquePerCompany(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	c, err := svc.CreateClient(ctx, "owner", CreateClientInput{Name: "Ana", Email: strPtr("Ana@Example.com"), Phone: strPtr(" 555-0100 ")})
	require.NoError(t, err)
	require.NotNil(t, c.Email)
	assert.Equal(t, "ana@example.com", *c.Email)
	assert.Equal(t, "555-0100", *c.Phone)

	_, err = svc.CreateClient(ctx, "owner", CreateClientInput{Name: "Other Ana", Email: strPtr("ana@example.com")})
	requireCode(t, err, apperr.CodeEmailInUse)

	_, err = svc.CreateClient(ctx, "rival", CreateClientInput{Name: "Ana", Email: strPtr("ana@example.com")})
	require.NoError(t, err, "emails are unique per company only")

	_, err = svc.CreateClient(ctx, "owner", CreateClientInput{Name: "No Email"})
	require.NoError(t, err)
	_, err = svc.CreateClient(ctx, "owner", CreateClientInput{Name: "Bad", Email: strPtr("nope")})
	requireCode(t, err, apperr.CodeValidation)
}

func TestUpdateClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	ana, err := svc.CreateClient(ctx, "owner", CreateClientInput{Name: "Ana", Email: strPtr("ana@example.com")})
	require.NoError(t, err)
	bob, err := svc.CreateClient(ctx, "owner", CreateClientInput{Name: "Bob", Email: strPtr("bob@example.com"), Phone: strPtr("1")})
	require.NoError(t, err)

	_, err = svc.UpdateClient(ctx, "owner", bob.ID, UpdateClientInput{Email: patch.Some("ANA@example.com")})
	requireCode(t, err, apperr.CodeEmailInUse)

	// Keeping your own email is not a conflict.
	same, err := svc.UpdateClient(ctx, "owner", ana.ID, UpdateClientInput{Email: patch.Some("ana@example.com"), Name: patch.Some("Ana B")})
	require.NoError(t, err)
	assert.Equal(t, "Ana B", same.Name)

	cleared, err := svc.UpdateClient(ctx, "owner", bob.ID, UpdateClientInput{Email: patch.Null[string](), Phone: patch.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.Email)
	assert.Nil(t, cleared.Phone)
	assert.Equal(t, "Bob", cleared.Name)

	_, err = svc.UpdateClient(ctx, "rival", ana.ID, UpdateClientInput{Name: patch.Some("X")})
	requireCode(t, err, apperr.CodeForbidden)
	_, err = svc.UpdateClient(ctx, "owner", "missing", UpdateClientInput{Name: patch.Some("X")})
	requireCode(t, err, apperr.CodeClientNotFound)
}

func TestGetListDeleteClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	c, err := svc.CreateClient(ctx, "owner", CreateClientInput{Name: "Ana"})
	require.NoError(t, err)

	_, err = svc.GetClient(ctx, "rival", c.ID)
	requireCode(t, err, apperr.CodeForbidden)

	list, err := svc.ListClients(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	rivalList, err := svc.ListClients(ctx, "rival")
	require.NoError(t, err)
	assert.Empty(t, rivalList)

	requireCode(t, svc.DeleteClient(ctx, "rival", c.ID), apperr.CodeForbidden)
	require.NoError(t, svc.DeleteClient(ctx, "owner", c.ID))
	_, err = svc.GetClient(ctx, "owner", c.ID)
	requireCode(t, err, apperr.CodeClientNotFound)

	_, err = svc.ListClients(ctx, "nobody")
	requireCode(t, err, apperr.CodeCompanyNotFound)
}
