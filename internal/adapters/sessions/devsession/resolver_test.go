package devsession

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/sessions"
)

func TestResolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := http.Header{}
	h.Set(SubjectHeader, " alice ")
	got, err := New("fallback").Resolve(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectID("alice"), got.User.ID)
	assert.Equal(t, "alice@dev.local", got.User.Email)
	assert.Equal(t, got.User.ID, got.Session.UserID)

	got, err = New("fallback").Resolve(ctx, http.Header{})
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectID("fallback"), got.User.ID)

	_, err = New("").Resolve(ctx, http.Header{})
	require.ErrorIs(t, err, sessions.ErrNoSession)
}
