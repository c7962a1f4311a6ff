package httpapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, request{method: http.MethodGet, path: "/"})
	requireStatus(t, rec, http.StatusOK)
	env := decode[rootView](t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Attend Backend API", env.Data.Message)
	assert.Equal(t, "test", env.Data.Version)
	assert.Equal(t, "/docs", env.Data.Docs)
	assert.NotEmpty(t, env.Meta.Timestamp)
	assert.NotEmpty(t, env.Meta.RequestID)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestHealth(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	api.clk.Advance(90 * time.Second)

	rec := api.do(t, request{method: http.MethodGet, path: "/health"})
	requireStatus(t, rec, http.StatusOK)
	env := decode[healthView](t, rec)
	assert.Equal(t, "ok", env.Data.Status)
	assert.Equal(t, "test", env.Data.Version)
	assert.InDelta(t, 90, env.Data.Uptime, 0.001)
}

func TestUnknownRoute_404Envelope(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	env := requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/nope"}), http.StatusNotFound, "NOT_FOUND")
	assert.Contains(t, env.Error.Message, "/nope")
}

func TestWrongMethod_405Envelope(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	requireFailure(t, api.do(t, request{method: http.MethodPatch, path: "/health"}), http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	for _, path := range []string{"/auth/me", "/companies/me", "/services", "/professionals", "/clients", "/appointments"} {
		env := requireFailure(t, api.do(t, request{method: http.MethodGet, path: path}), http.StatusUnauthorized, "UNAUTHORIZED")
		assert.NotEmpty(t, env.Meta.RequestID, path)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, request{method: http.MethodGet, path: "/nope", headers: map[string]string{middleware.RequestIDHeader: "req-123"}})
	env := decode[any](t, rec)
	assert.Equal(t, "req-123", env.Meta.RequestID)
	assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))

	rec = api.do(t, request{method: http.MethodGet, path: "/health"})
	requireStatus(t, rec, http.StatusOK)
	generated := rec.Header().Get(middleware.RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, decode[any](t, rec).Meta.RequestID, generated)
}

func TestGetMe(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, request{method: http.MethodGet, path: "/auth/me", subject: "user-1"})
	requireStatus(t, rec, http.StatusOK)
	env := decode[meView](t, rec)
	assert.Equal(t, "user-1", env.Data.User.ID)
	assert.Equal(t, "user-1@dev.local", env.Data.User.Email)
	assert.Equal(t, "user-1", env.Data.Session.UserID)
}

func TestCompanyLifecycle(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/companies/me", subject: "owner"}), http.StatusNotFound, "COMPANY_NOT_FOUND")

	id := api.create(t, "owner", "/companies", map[string]any{"name": "Acme"})

	rec := api.do(t, request{method: http.MethodGet, path: "/companies/me", subject: "owner"})
	requireStatus(t, rec, http.StatusOK)
	mine := decode[companyView](t, rec)
	assert.Equal(t, id, mine.Data.ID)
	assert.Equal(t, "owner", mine.Data.OwnerID)

	requireFailure(t,
		api.do(t, request{method: http.MethodPost, path: "/companies", subject: "owner", body: map[string]any{"name": "Again"}}),
		http.StatusConflict, "COMPANY_ALREADY_EXISTS")

	// Another subject sees the company as forbidden, not missing.
	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/companies/" + id, subject: "rival"}), http.StatusForbidden, "FORBIDDEN")
	requireFailure(t,
		api.do(t, request{method: http.MethodPut, path: "/companies/" + id, subject: "rival", body: map[string]any{"name": "Mine"}}),
		http.StatusForbidden, "FORBIDDEN")
	requireFailure(t, api.do(t, request{method: http.MethodDelete, path: "/companies/" + id, subject: "rival"}), http.StatusForbidden, "FORBIDDEN")

	rec = api.do(t, request{method: http.MethodGet, path: "/companies/" + id, subject: "owner"})
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "Acme", decode[companyView](t, rec).Data.Name)

	rec = api.do(t, request{method: http.MethodPut, path: "/companies/" + id, subject: "owner", body: map[string]any{"name": "Acme Two"}})
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "Acme Two", decode[companyView](t, rec).Data.Name)

	rec = api.do(t, request{method: http.MethodDelete, path: "/companies/" + id, subject: "owner"})
	requireStatus(t, rec, http.StatusNoContent)
	assert.Empty(t, rec.Body.Bytes())

	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/companies/" + id, subject: "owner"}), http.StatusNotFound, "COMPANY_NOT_FOUND")
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	env := requireFailure(t,
		api.do(t, request{method: http.MethodPost, path: "/companies", subject: "owner", body: map[string]any{}}),
		http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Equal(t, "is required", env.Error.Details["name"])

	env = requireFailure(t,
		api.do(t, request{method: http.MethodPost, path: "/companies", subject: "owner", raw: "{"}),
		http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Contains(t, env.Error.Details, "body")

	env = requireFailure(t,
		api.do(t, request{method: http.MethodPost, path: "/companies", subject: "owner", body: map[string]any{"name": "Acme", "extra": true}}),
		http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Equal(t, "is not allowed", env.Error.Details["extra"])

	env = requireFailure(t,
		api.do(t, request{method: http.MethodPost, path: "/companies", subject: "owner", raw: `{"name":"a"}{"name":"b"}`}),
		http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Contains(t, env.Error.Details, "body")

	env = requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/companies/not-a-uuid", subject: "owner"}), http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Equal(t, "must be a UUID", env.Error.Details["companyId"])
}

func TestCompanyScopedRoutes_RequireCompany(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	for _, path := range []string{"/services", "/professionals", "/clients", "/appointments"} {
		requireFailure(t, api.do(t, request{method: http.MethodGet, path: path, subject: "nobody"}), http.StatusNotFound, "COMPANY_NOT_FOUND")
	}
}

func TestWriteError_UnknownErrorIs500(t *testing.T) {
	t.Parallel()

	rec := newRecorderFor(t, func(w http.ResponseWriter, r *http.Request) error {
		return assert.AnError
	})
	env := requireFailure(t, rec, http.StatusInternalServerError, "INTERNAL_ERROR")
	assert.NotContains(t, env.Error.Message, assert.AnError.Error())
	require.Nil(t, env.Error.Details)
}
