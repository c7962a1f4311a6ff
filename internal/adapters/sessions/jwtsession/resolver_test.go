package jwtsession_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attend-app/attend-api/internal/adapters/sessions/jwtsession"
	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/platform/auth/jwks_testutil"
	"github.com/attend-app/attend-api/internal/platform/auth/jwtverifier"
	"github.com/attend-app/attend-api/internal/platform/config"
	"github.com/attend-app/attend-api/internal/ports/out/sessions"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestResolve(t *testing.T) {
	t.Parallel()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	t.Cleanup(jwksSrv.Close)
	kp, err := jwks_testutil.GenerateRSAKeypair("kid-1")
	require.NoError(t, err)
	setKeys([]jwks_testutil.Keypair{kp})

	cfg := config.JWTConfig{
		Issuer:              "test-iss",
		Audience:            "test-aud",
		JWKSURL:             jwksSrv.URL,
		JWKSRefreshInterval: 10 * time.Minute,
		HTTPTimeout:         2 * time.Second,
	}
	now := time.Unix(1700000000, 0)
	r := jwtsession.New(jwtverifier.NewWithOptions(cfg, nil, fixedClock{t: now}))

	tok, err := jwks_testutil.MintRS256JWT(kp, jwks_testutil.Token{
		Issuer:    cfg.Issuer,
		Audience:  cfg.Audience,
		Subject:   "owner-1",
		Email:     "owner@example.com",
		Name:      "Olivia",
		SessionID: "sess-9",
		Now:       now,
		ExpiresIn: 5 * time.Minute,
	})
	require.NoError(t, err)

	h := http.Header{}
	h.Set("Authorization", "Bearer "+tok)
	got, err := r.Resolve(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectID("owner-1"), got.User.ID)
	assert.Equal(t, "owner@example.com", got.User.Email)
	require.NotNil(t, got.User.Name)
	assert.Equal(t, "Olivia", *got.User.Name)
	assert.Equal(t, "sess-9", got.Session.ID)

	for _, authz := range []string{"", "Basic abc", "Bearer ", "Bearer not-a-token"} {
		h := http.Header{}
		if authz != "" {
			h.Set("Authorization", authz)
		}
		_, err := r.Resolve(context.Background(), h)
		require.ErrorIs(t, err, sessions.ErrNoSession, authz)
	}
}
